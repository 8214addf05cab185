package main

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/ougirez/kisannetra/internal/service/diagnose"
	"github.com/spf13/cobra"
)

var verifyModelCmd = &cobra.Command{
	Use:   "verify-model",
	Short: "Classify a random-noise image to check the configured model endpoint",
	Args:  cobra.NoArgs,
	RunE:  runVerifyModel,
}

func runVerifyModel(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	classifier := diagnose.NewClassifier(diagnose.Options{
		URL:     cfg.ModelURL,
		Device:  cfg.ModelDevice,
		Timeout: cfg.ModelTimeout,
	})

	preds, err := classifier.Predict(cmd.Context(), noiseImage(224, 224), cfg.ModelTopK)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model ok (device %s), %d labels\n", classifier.Device(), len(classifier.Labels()))
	for _, p := range preds {
		fmt.Fprintf(out, "  %-50s %.4f\n", p.Label, p.Prob)
	}
	return nil
}

func noiseImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(rand.Intn(256)), G: uint8(rand.Intn(256)), B: uint8(rand.Intn(256)), A: 255})
		}
	}
	return img
}

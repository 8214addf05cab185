package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/kisannetra/internal/api"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store"
	"github.com/ougirez/kisannetra/internal/service/diagnose"
	"github.com/ougirez/kisannetra/internal/service/prices"
	"github.com/ougirez/kisannetra/internal/service/recommend"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBURL, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("store.Open: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}

	classifier := diagnose.NewClassifier(diagnose.Options{
		URL:     cfg.ModelURL,
		Device:  cfg.ModelDevice,
		Timeout: cfg.ModelTimeout,
	})
	if !classifier.Loaded() {
		logger.Warnf(ctx, "model url is not set, /api/predict will answer 503")
	}

	svc := api.NewAPIService(cfg, version, api.Services{
		Recommend:  recommend.NewRecommendService(st),
		Prices:     prices.NewPricesService(st),
		Classifier: classifier,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof(gctx, "listening on %s (db %s, device %s)", cfg.Addr(), st.Dialect(), classifier.Device())
		return svc.Serve(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Infof(shutdownCtx, "shutting down")
		if err := svc.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	start := time.Now()
	err = g.Wait()
	logger.Infof(context.Background(), "stopped after %s", time.Since(start).Round(time.Second))
	return err
}

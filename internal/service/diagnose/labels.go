package diagnose

import (
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
)

//go:embed labels.json
var labelsJSON []byte

// PlantVillage classes in model output order.
var defaultLabels = mustLabels(labelsJSON)

func mustLabels(raw []byte) []string {
	var labels []string
	if err := sonic.Unmarshal(raw, &labels); err != nil {
		panic(fmt.Sprintf("diagnose: bad labels.json: %v", err))
	}
	return labels
}

// Labels returns a copy of the embedded label list.
func Labels() []string {
	out := make([]string, len(defaultLabels))
	copy(out, defaultLabels)
	return out
}

func labelAt(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("class_%d", i)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ougirez/kisannetra/internal/pkg/config"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time: -ldflags "-X main.version=..."
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "kisannetra",
	Short:         "Crop disease diagnosis and treatment recommendation service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a yaml/json/toml config file")
	rootCmd.AddCommand(serveCmd, initDBCmd, verifyModelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logger.Fatal(context.Background(), err)
	}
	logger.Sync()
}

// loadConfig reads the config and sets up the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.New(), configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogDev); err != nil {
		return nil, fmt.Errorf("logger.Init: %w", err)
	}
	return cfg, nil
}

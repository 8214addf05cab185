package main

import (
	"fmt"
	"os"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store"
	"github.com/ougirez/kisannetra/internal/service/prices"
	"github.com/spf13/cobra"
)

var (
	seedCSV   string
	seedForce bool
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the prices table and load the sample price sheet",
	Args:  cobra.NoArgs,
	RunE:  runInitDB,
}

func init() {
	initDBCmd.Flags().StringVar(&seedCSV, "csv", "", "seed from this csv instead of the built-in sample")
	initDBCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when the table already has rows")
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.DBURL, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("store.Open: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}

	offers, err := seedOffers()
	if err != nil {
		return err
	}

	svc := prices.NewPricesService(st)
	var n int
	if seedForce {
		n, err = st.ImportOffers(ctx, offers, false)
	} else {
		n, err = svc.SeedIfEmpty(ctx, offers)
	}
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	logger.Infof(ctx, "database initialized, %d offers loaded", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Database initialized and %d sample offers loaded.\n", n)
	return nil
}

func seedOffers() ([]*domain.Offer, error) {
	if seedCSV == "" {
		return prices.SampleOffers()
	}

	f, err := os.Open(seedCSV)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", seedCSV, err)
	}
	defer f.Close()

	return prices.ReadCSV(f)
}

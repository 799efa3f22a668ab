// Package cli implements the debtbook command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/debtbook/internal/config"
	"github.com/mmynk/debtbook/internal/debts"
	"github.com/mmynk/debtbook/internal/fx"
	"github.com/mmynk/debtbook/internal/storage/sqlite"
	"github.com/mmynk/debtbook/pkg/logging"
)

var configPath string

// NewRootCommand builds the debtbook command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "debtbook",
		Short:         "Track debts and allocate repayments",
		Long:          `debtbook records money lent and borrowed in USD and KHR, applies lump-sum repayments oldest debt first and reports who owes what.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "debtbook.toml", "path to the TOML config file")

	root.AddCommand(newServeCommand(), newTokenCommand(), newRateCommand(), newSettingsCommand())
	return root
}

// loadConfig reads the config file and sets up logging from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	logging.Setup(cfg.Log.Level)
	return cfg, nil
}

// openManager opens the store and builds the debt engine from cfg.
// The caller closes the returned store.
func openManager(cfg config.Config) (*debts.Manager, *sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	fallback, _ := cfg.FallbackRate()
	defaults, _ := cfg.DefaultSettings()

	cache := fx.NewCache(fx.NewHTTPFetcher(cfg.FX.SourceURL, cfg.FXTimeout()), fx.CacheConfig{
		TTL:      cfg.CacheTTL(),
		Fallback: fallback,
	})

	mcfg := debts.DefaultConfig()
	mcfg.MaxAttempts = cfg.Allocation.MaxAttempts
	mcfg.DefaultSettings = defaults

	return debts.NewManager(store, fx.NewResolver(cache), mcfg), store, nil
}

package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/debtbook/internal/models"
)

func newSettingsCommand() *cobra.Command {
	var (
		account string
		mode    string
		rate    string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Set an account's exchange rate preference",
		Example: `  debtbook settings --account acct-1 --mode fixed --rate 4000
  debtbook settings --account acct-1 --mode live`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			settings := &models.AccountSettings{AccountID: account, RateMode: models.RateMode(mode)}
			if rate != "" {
				settings.FixedRate, err = decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid rate %q: %w", rate, err)
				}
			}

			manager, store, err := openManager(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := manager.SetAccountSettings(cmd.Context(), settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s now uses %s rate\n", account, settings.RateMode)
			return nil
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "account id")
	cmd.Flags().StringVar(&mode, "mode", string(models.RateLive), "rate mode: fixed or live")
	cmd.Flags().StringVar(&rate, "rate", "", "KHR per USD, required for fixed mode")
	cmd.MarkFlagRequired("account")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRateCommand() *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Print the KHR per USD rate an account resolves to",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, store, err := openManager(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			settings, err := manager.GetAccountSettings(cmd.Context(), account)
			if err != nil {
				return err
			}
			rate, err := manager.Rate(cmd.Context(), account)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s KHR/USD (%s)\n", rate, settings.RateMode)
			return nil
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "account id")
	cmd.MarkFlagRequired("account")
	return cmd
}

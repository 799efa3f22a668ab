package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/debtbook/internal/auth"
)

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token <account-id>",
		Short: "Mint a bearer token for an account",
		Long:  `Sign a token for the given account with the configured secret. Intended for development; production tokens come from the identity provider.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret (or DEBTBOOK_JWT_SECRET) must be set")
			}

			token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenTTL()).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

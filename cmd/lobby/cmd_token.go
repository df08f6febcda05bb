package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiawesome/room-lobby/internal/identity"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP surface",
	Long: `Signs an HS256 token with identity.jwt_secret. The token subject becomes
the acting identity of requests that carry it.

Example:
  lobby token --user alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Identity.JWTSecret == "" {
			return errors.New("identity.jwt_secret is not set")
		}

		tokens, err := identity.NewManager(cfg.Identity.JWTSecret, time.Duration(cfg.Identity.TokenTTL)*time.Minute, cfg.Identity.Issuer)
		if err != nil {
			return err
		}
		token, err := tokens.Issue(cfg.Identity.User)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

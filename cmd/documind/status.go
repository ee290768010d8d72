package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend and login status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		printStatus("Backend", "%s", cfg.Server.BaseURL)

		client, _, err := newAnonGateway()
		if err != nil {
			return err
		}
		health, err := client.Health(cmd.Context())
		if err != nil {
			printStatus("Server", "unreachable (%v)", err)
		} else {
			printStatus("Server", "%s (version %s)", health.Status, health.Version)
		}

		creds, err := config.LoadCredentials()
		switch {
		case errors.Is(err, config.ErrNoCredentials):
			printStatus("Login", "not logged in")
		case err != nil:
			printStatus("Login", "credential unreadable (%v)", err)
		default:
			state := "active"
			if claims, err := config.DecodeClaims(creds.AccessToken); err == nil && claims.Expired() {
				state = "expired"
			}
			printStatus("Login", "%s (%s)", creds.Username, state)
		}

		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}

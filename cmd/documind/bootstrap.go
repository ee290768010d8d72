package main

import (
	"errors"
	"fmt"

	"github.com/documind/cli/internal/config"
	"github.com/documind/cli/internal/gateway"
)

// newGateway builds an authenticated client from the stored credential.
// Commands that work without a login use newAnonGateway instead. It is a
// variable so command tests can substitute a client pointed at a test server.
var newGateway = func() (*gateway.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		if errors.Is(err, config.ErrNoCredentials) {
			return nil, config.Config{}, fmt.Errorf("not logged in — run `documind login` first")
		}
		return nil, config.Config{}, err
	}

	if claims, err := config.DecodeClaims(creds.AccessToken); err == nil && claims.Expired() {
		printWarning("Stored session has expired; you will likely need to log in again.")
	}

	client := gateway.New(cfg.Server.BaseURL, creds.AccessToken,
		gateway.WithTimeout(cfg.Timeout()),
		gateway.WithOnAuthInvalidated(func() {
			if err := config.ClearCredentials(); err != nil {
				printWarning("Could not clear stored credentials: %v", err)
			}
			printWarning("Session rejected by the server. Logged out — run `documind login` to continue.")
		}),
	)
	return client, cfg, nil
}

// newAnonGateway builds a client without a credential, for login, register
// and health checks.
var newAnonGateway = func() (*gateway.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	client := gateway.New(cfg.Server.BaseURL, "", gateway.WithTimeout(cfg.Timeout()))
	return client, cfg, nil
}

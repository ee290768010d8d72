package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the session credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		client, _, err := newAnonGateway()
		if err != nil {
			return err
		}

		token, err := client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		creds := config.Credentials{
			AccessToken: token,
			Username:    username,
			SavedAt:     time.Now().UTC(),
		}
		if err := config.SaveCredentials(creds); err != nil {
			return fmt.Errorf("login succeeded but storing the credential failed: %w", err)
		}

		printSuccess("Logged in as %s", username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		client, _, err := newAnonGateway()
		if err != nil {
			return err
		}

		resp, err := client.Register(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		msg := resp.Message
		if msg == "" {
			msg = "Account created"
		}
		printSuccess("%s — run `documind login %s` to start", msg, username)
		if resp.UserID != "" {
			printStatus("User id", "%s", resp.UserID)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearCredentials(); err != nil {
			return err
		}
		printSuccess("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current login",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}

		printStatus("Username", "%s", creds.Username)
		printStatus("Logged in", "%s", creds.SavedAt.Local().Format("2006-01-02 15:04"))

		claims, err := config.DecodeClaims(creds.AccessToken)
		if err != nil {
			printWarning("Stored token could not be decoded: %v", err)
			return nil
		}
		if claims.Role != "" {
			printStatus("Role", "%s", claims.Role)
		}
		if !claims.ExpiresAt.IsZero() {
			if claims.Expired() {
				printWarning("Session expired %s", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			} else {
				printStatus("Expires", "%s", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

// readPassword takes --password when given, otherwise prompts on stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password = strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}

func init() {
	loginCmd.Flags().String("password", "", "password (prompted if omitted)")
	registerCmd.Flags().String("password", "", "password (prompted if omitted)")
}

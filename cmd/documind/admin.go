package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/render"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative views (requires an admin account)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		users, err := client.AdminUsers(cmd.Context())
		if err != nil {
			return err
		}

		if len(users) == 0 {
			fmt.Println("No users registered.")
			return nil
		}
		fmt.Print(render.UserTable(users))
		return nil
	},
}

var adminDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List all documents across users",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		docs, err := client.AdminDocuments(cmd.Context())
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("No documents in the system.")
			return nil
		}
		fmt.Print(render.DocumentTable(docs))
		return nil
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete user %s. Use --confirm to proceed.", args[0])
			return nil
		}

		client, _, err := newGateway()
		if err != nil {
			return err
		}

		if err := client.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSuccess("Deleted user %s", args[0])
		return nil
	},
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Dump the system-wide analytics payload as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		report, err := client.AdminAnalytics(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	adminDeleteUserCmd.Flags().Bool("confirm", false, "confirm deletion")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminDocumentsCmd)
	adminCmd.AddCommand(adminDeleteUserCmd)
	adminCmd.AddCommand(adminAnalyticsCmd)
}

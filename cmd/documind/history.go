package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/config"
	"github.com/documind/cli/internal/render"
	"github.com/documind/cli/internal/transcript"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse locally recorded chat transcripts",
}

func openTranscripts() (*transcript.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return transcript.Open(cfg.Storage.DataDir)
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openTranscripts()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.ListSessions(limit)
		if err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("No recorded sessions.")
			return nil
		}

		for _, s := range sessions {
			scope := "whole corpus"
			if s.DocumentID != "" {
				scope = "doc " + s.DocumentID
			}
			fmt.Printf("%s  %s  %2d messages  (%s)\n",
				cyan.Sprint(s.ID[:8]),
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				s.Turns,
				scope,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Replay one session's transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTranscripts()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := resolveSessionID(store, args[0])
		if err != nil {
			return err
		}

		messages, err := store.SessionMessages(id)
		if err != nil {
			return err
		}

		for _, m := range messages {
			switch m.Role {
			case "user":
				fmt.Printf("%s %s\n", bold.Sprint(">"), m.Content)
			default:
				fmt.Printf("%s\n", m.Content)
				if m.Confidence != nil {
					fmt.Printf("  confidence: %s\n", render.ConfidenceBucket(m.Confidence))
				}
			}
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all transcripts as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		store, err := openTranscripts()
		if err != nil {
			return err
		}
		defer store.Close()

		writer := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			writer = f
		}

		sessions, err := store.ListSessions(10000)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(writer)
		for _, s := range sessions {
			if err := enc.Encode(map[string]any{"type": "session", "data": s}); err != nil {
				return err
			}
			messages, err := store.SessionMessages(s.ID)
			if err != nil {
				return err
			}
			for _, m := range messages {
				if err := enc.Encode(map[string]any{"type": "message", "data": m}); err != nil {
					return err
				}
			}
		}

		if output != "" {
			printSuccess("Transcripts exported to %s", output)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL recorded transcripts. Use --confirm to proceed.")
			return nil
		}

		store, err := openTranscripts()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteAllSessions(); err != nil {
			return err
		}
		printSuccess("Transcripts cleared")
		return nil
	},
}

// resolveSessionID accepts either a full session id or a unique prefix.
func resolveSessionID(store *transcript.Store, idOrPrefix string) (string, error) {
	sessions, err := store.ListSessions(10000)
	if err != nil {
		return "", err
	}

	var match string
	for _, s := range sessions {
		if s.ID == idOrPrefix {
			return s.ID, nil
		}
		if len(idOrPrefix) >= 4 && len(s.ID) > len(idOrPrefix) && s.ID[:len(idOrPrefix)] == idOrPrefix {
			if match != "" {
				return "", fmt.Errorf("session prefix %q is ambiguous", idOrPrefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no session matching %q", idOrPrefix)
	}
	return match, nil
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of sessions to list")
	historyExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	historyClearCmd.Flags().Bool("confirm", false, "confirm transcript deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/render"
	"github.com/documind/cli/internal/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <document-id>",
	Short: "Generate a structured summary of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID := args[0]
		regenerate, _ := cmd.Flags().GetBool("regenerate")

		client, cfg, err := newGateway()
		if err != nil {
			return err
		}

		coord := summary.New(client, cfg.SummaryTTL())
		if regenerate {
			coord.Reset(docID)
		}

		printStep("Summarizing document %s...", docID)
		coord.Request(cmd.Context(), docID)

		rec, err := coord.Await(cmd.Context(), docID)
		if err != nil {
			return err
		}

		switch rec.State {
		case summary.StateReady:
			fmt.Print(render.Summary(*rec.Response))
			return nil
		case summary.StateError:
			return fmt.Errorf("summary failed: %s", rec.Err)
		default:
			return fmt.Errorf("summary unavailable")
		}
	},
}

func init() {
	summarizeCmd.Flags().Bool("regenerate", false, "discard any cached summary and build a fresh one")
}

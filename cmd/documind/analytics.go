package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/documind/cli/internal/gateway"
	"github.com/documind/cli/internal/render"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show usage analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		// The two reports come from independent endpoints; fetch them
		// concurrently and render once both are in.
		var (
			analytics gateway.Analytics
			summary   gateway.AnalyticsSummary
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			analytics, err = client.Analytics(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			summary, err = client.AnalyticsSummary(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Print(render.AnalyticsReport(analytics, summary))
		return nil
	},
}

var analyticsChartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Dump the raw visualization payload as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}

		charts, err := client.Visualization(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(charts)
	},
}

func init() {
	analyticsCmd.AddCommand(analyticsChartsCmd)
}

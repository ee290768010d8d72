package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/agent"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the document corpus to agents over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newGateway()
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Log.Level == "debug" {
			level = slog.LevelDebug
		}
		// stdout carries the MCP protocol; logs go to stderr only.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		s := agent.NewServer(agent.Deps{
			Gateway:    client,
			MaxResults: cfg.Chat.MaxResults,
		})

		slog.Info("MCP server starting", "transport", "stdio", "backend", cfg.Server.BaseURL)
		return server.ServeStdio(s)
	},
}

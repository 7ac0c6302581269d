// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to keep the habit journal via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/habit-journal/internal/journal"
	"github.com/harper/habit-journal/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the habit journal as an MCP (Model Context Protocol) server,
letting LLM agents like Claude check habits, write the diary and
read statistics via stdio.

Diary edits are saved automatically after a short quiet period
(HABITS_AUTOSAVE_DELAY); any pending save runs before shutdown.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  habits mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "habits": {
  #       "command": "habits",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	autosaver := journal.NewAutoSaver(a.engine, a.cfg.AutosaveDelay, func(err error) {
		a.logger.Error("autosave failed", "err", err)
	})

	server := mcpserver.NewMCPServer(
		"Habit Journal",
		versionInfo.Version,
	)

	handlers := mcp.RegisterTools(server, a.engine, autosaver, a.logger)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		a.logger.Info("MCP server starting on stdio", "store", a.cfg.Store)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			a.logger.Info("shutdown signal received")
		}
		handlers.Shutdown()

	case err := <-serverErr:
		handlers.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

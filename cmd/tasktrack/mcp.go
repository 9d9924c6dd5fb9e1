package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/identity"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/mcp"
	"github.com/tasktrack/tasktrack/internal/server"
)

// mcpClientProgram names the stdio tool bridge in the client header.
const mcpClientProgram = "tasktrack-mcp"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the agent tools over stdio",
	Long: `Serve the readTasks and writeTasks tools as newline-delimited JSON-RPC
over stdin and stdout. Tool calls are forwarded to the running tasktrack
server (see 'tasktrack serve'), which owns the task store. Logs go to stderr.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := runMCP(ctx, os.Stdin, os.Stdout); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// runMCP bridges the stdio transport to the server at the configured
// address. It fails fast when no server is listening.
func runMCP(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, "mcp")

	c := client.NewClient(cfg.Addr(), identity.ClientID(mcpClientProgram))
	if err := c.Health(ctx); err != nil {
		return err
	}

	toolServer, err := server.NewToolServer(client.NewRemoteService(c), version, logger)
	if err != nil {
		return err
	}

	logger.Info("serving tools on stdio", "server", cfg.Addr())
	err = mcp.NewStdioTransport(toolServer, in, out).Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

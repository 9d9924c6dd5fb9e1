package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/server"
	"github.com/tasktrack/tasktrack/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tasktrack server",
	Long: `Run the HTTP server in the foreground. The REST API is served under /api
and the agent tools under /mcp. SIGINT or SIGTERM shuts the server down
gracefully.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")

		if err := runServe(bind); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (default localhost:7432)")
}

func runServe(bind string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if bind != "" {
		if err := cfg.SetBind(bind); err != nil {
			return err
		}
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, "server")

	st, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	srv, err := server.New(server.Options{
		Addr:    cfg.Addr(),
		Store:   st,
		Logger:  logger,
		Version: version,
	})
	if err != nil {
		st.Close()
		return err
	}

	logger.Info("starting server", "addr", cfg.Addr(), "storage", cfg.Storage.Driver, "data_dir", cfg.Storage.DataDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

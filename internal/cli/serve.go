package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"edubot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the chatbot HTTP API. The dataset is loaded on startup unless
disabled in the config; /api/load-data reloads it without a restart.

Examples:
  edubot serve
  edubot serve --config edubot.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	dataDir, err := filepath.Abs(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("invalid data directory: %w", err)
	}

	if cfg.Data.LoadOnStart {
		if result, err := a.load.Load(dataDir); err != nil {
			// The server still starts; /api/load-data can retry.
			a.logger.Warn().Err(err).Str("dir", dataDir).Msg("initial data load failed")
		} else {
			a.logger.Info().Int("rows", result.Rows).Msg("initial data load complete")
		}
	}

	handler := server.NewHandler(a.ask, a.load, a.corpus, dataDir, a.logger)
	router := server.NewRouter(handler, server.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		srv.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info().Msg("server stopped")
	return nil
}

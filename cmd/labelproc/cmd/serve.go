package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Raincor5/kitchen-system/internal/server"
	"github.com/Raincor5/kitchen-system/internal/storage"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP label processing API",
	Long: `Start an HTTP server that provides REST API endpoints for label
processing, storage and printing.

Endpoints:
  POST   /process-image      - Extract and parse labels from an uploaded image
  POST   /labels             - Save a processed label
  GET    /labels             - List saved labels
  GET    /labels/{id}        - Fetch one saved label
  DELETE /labels/{id}        - Delete a saved label
  POST   /labels/{id}/print  - Send a saved label to the print agent
  GET    /ws/process         - WebSocket streaming of per-region results
  GET    /health             - Health check
  GET    /metrics            - Prometheus metrics

Examples:
  labelproc serve
  labelproc serve --port 8080
  labelproc serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}
	corsOrigin := cfg.Server.CORSOrigin
	if cmd.Flags().Changed("cors-origin") {
		corsOrigin, _ = cmd.Flags().GetString("cors-origin")
	}
	maxUploadMB := cfg.Server.MaxUploadMB
	if cmd.Flags().Changed("max-upload-size") {
		maxUploadMB, _ = cmd.Flags().GetInt("max-upload-size")
	}

	logger := slog.Default()

	pl, err := buildPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	store, err := storage.NewFromDSN(cfg.Storage.DSN, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize label store: %w", err)
	}

	srv := server.NewServer(server.Config{
		Host:            host,
		Port:            port,
		CORSOrigin:      corsOrigin,
		MaxUploadMB:     maxUploadMB,
		Timeout:         time.Duration(cfg.Server.TimeoutSec) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}, pl, store, buildPrinter(cfg, logger), buildVocab(cfg, logger), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 0, "port to bind the server to")
	serveCmd.Flags().String("cors-origin", "", "CORS allowed origin")
	serveCmd.Flags().Int("max-upload-size", 0, "maximum upload size in MB")
}

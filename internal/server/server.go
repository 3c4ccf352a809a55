// Package server exposes the label processing pipeline, the label store
// and print delivery over HTTP.
package server

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Raincor5/kitchen-system/internal/pipeline"
	"github.com/Raincor5/kitchen-system/internal/printer"
	"github.com/Raincor5/kitchen-system/internal/storage"
	"github.com/Raincor5/kitchen-system/internal/vocab"
)

// pipelineRunner is the part of the pipeline the server depends on.
// Narrowing the dependency keeps handlers testable with stubs.
type pipelineRunner interface {
	ProcessImage(ctx context.Context, img image.Image) pipeline.Result
}

// Config holds HTTP server settings.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int
	Timeout         time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns server defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		CORSOrigin:      "*",
		MaxUploadMB:     20,
		Timeout:         60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end of the label processing system.
type Server struct {
	cfg        Config
	corsOrigin string

	pipeline pipelineRunner
	store    storage.Store
	printer  *printer.Client
	vocab    vocab.Provider

	logger     *slog.Logger
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer assembles a server around the given collaborators.
func NewServer(
	cfg Config,
	p pipelineRunner,
	store storage.Store,
	printClient *printer.Client,
	vocabProvider vocab.Provider,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = DefaultConfig().MaxUploadMB
	}
	if vocabProvider == nil {
		vocabProvider = vocab.StaticProvider{}
	}

	s := &Server{
		cfg:        cfg,
		corsOrigin: cfg.CORSOrigin,
		pipeline:   p,
		store:      store,
		printer:    printClient,
		vocab:      vocabProvider,
		logger:     logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			// CORS policy for websockets mirrors the HTTP one.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/process-image", s.corsMiddleware(s.processImageHandler))
	mux.HandleFunc("/labels", s.corsMiddleware(s.labelsHandler))
	mux.HandleFunc("/labels/", s.corsMiddleware(s.labelByIDHandler))
	mux.HandleFunc("/ws/process", s.processWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	}
	return s
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) maxUploadBytes() int64 {
	return int64(s.cfg.MaxUploadMB) << 20
}

// Package server provides the public entry point for initializing the
// Workbench control plane server.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agentworkbench/workbench/internal/api"
	"github.com/agentworkbench/workbench/internal/api/handlers"
	"github.com/agentworkbench/workbench/internal/config"
	"github.com/agentworkbench/workbench/internal/orchestrator"
	"github.com/agentworkbench/workbench/internal/telemetry"
)

// Server holds the initialized Workbench control plane.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Orchestrator is the in-process coordination service all handlers
	// share. Exposed so embedders can drive it directly.
	Orchestrator *orchestrator.Service

	// Config is the loaded configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all control plane components and returns a ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the control plane with an explicit configuration.
func NewWithConfig(_ context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	svc := orchestrator.New()
	log.Info().Msg("Orchestrator initialized")

	h := handlers.New(svc)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Orchestrator: svc,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

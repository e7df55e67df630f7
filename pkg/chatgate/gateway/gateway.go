// Package gateway provides the HTTP API for the chat backend.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/chat"
	"github.com/averko/chatgate/pkg/chatgate/history"
)

// ModelSource reports which catalog models have live handles.
// *router.Router satisfies it.
type ModelSource interface {
	Available() []string
	IsLive(id string) bool
}

// Config holds the gateway settings.
type Config struct {
	// Address is the listen address.
	Address string

	// CORSOrigins lists allowed origins ("*" allows any).
	CORSOrigins []string

	// Provider is the provider id reported by /stats.
	Provider string
}

// Gateway is the HTTP API server. All dependencies are injected; it owns
// only the http.Server.
type Gateway struct {
	service     *chat.Service
	models      ModelSource
	store       history.Store
	provider    string
	corsOrigins []string
	server      *http.Server
	logger      *slog.Logger
	startedAt   time.Time
}

// New creates a Gateway.
func New(service *chat.Service, models ModelSource, store history.Store, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Address == "" {
		cfg.Address = ":8000"
	}
	g := &Gateway{
		service:     service,
		models:      models,
		store:       store,
		provider:    cfg.Provider,
		corsOrigins: cfg.CORSOrigins,
		logger:      logger.With("component", "gateway"),
		startedAt:   time.Now(),
	}
	g.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return g
}

// Handler builds the full middleware + route chain. Exposed so tests can
// drive the gateway through httptest without binding a socket.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", g.handleRoot)
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/chat", g.handleChat)
	mux.HandleFunc("/history", g.handleHistory)
	mux.HandleFunc("/stats", g.handleStats)
	mux.HandleFunc("/models", g.handleModels)

	return g.securityHeadersMiddleware(g.corsMiddleware(g.loggingMiddleware(mux)))
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (g *Gateway) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("gateway started", "address", g.server.Addr)
		if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		g.logger.Info("gateway stopping...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return g.server.Shutdown(shutdownCtx)
	}
}

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/chat"
	"github.com/averko/chatgate/pkg/chatgate/gateway"
	"github.com/averko/chatgate/pkg/chatgate/history"
	"github.com/averko/chatgate/pkg/chatgate/provider"
	"github.com/averko/chatgate/pkg/chatgate/router"
	"github.com/spf13/cobra"
)

// newServeCmd creates the `chatgate serve` command that starts the HTTP API.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the chatgate HTTP API, serving /chat, /history, /stats,
/models and /health until interrupted.

Examples:
  chatgate serve
  chatgate serve --address :9000
  chatgate serve --config ./config.yaml`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	// ── Load config ──
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("address"); addr != "" {
		cfg.Gateway.Address = addr
	}

	// ── Configure logger ──
	logger := newLogger(cmd, cfg)

	// ── Resolve API key (keyring → env → config) ──
	apiKey := cfg.ResolveAPIKey(logger)

	// ── Open history store ──
	store, err := history.Open(cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	// ── Build router and chat service ──
	var opts []provider.Option
	if cfg.API.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.API.BaseURL))
	}
	callTimeout := time.Duration(cfg.Router.CallTimeoutSeconds) * time.Second
	rt := router.New(apiKey, callTimeout, logger, opts...)
	service := chat.NewService(rt, store, logger)

	// ── Retention sweeper ──
	sweeper := history.NewSweeper(store, cfg.Retention, logger)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("starting retention sweeper: %w", err)
	}
	defer sweeper.Stop()

	// ── Start gateway, stop on SIGINT/SIGTERM ──
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gw := gateway.New(service, rt, store, gateway.Config{
		Address:     cfg.Gateway.Address,
		CORSOrigins: cfg.Gateway.CORSOrigins,
		Provider:    cfg.Provider,
	}, logger)

	logger.Info("chatgate running",
		"address", cfg.Gateway.Address,
		"live_models", len(rt.Available()),
		"database", string(history.DetectBackend(cfg.Database.URL)),
	)

	if err := gw.Start(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/history"
	"github.com/spf13/cobra"
)

// newStatsCmd creates the `chatgate stats` command reporting store totals.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show history store statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	store, err := history.Open(cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := store.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("counting messages: %w", err)
	}
	clients, err := store.CountDistinctClients(ctx)
	if err != nil {
		return fmt.Errorf("counting clients: %w", err)
	}

	fmt.Printf("Backend:        %s\n", history.DetectBackend(cfg.Database.URL))
	fmt.Printf("Total messages: %d\n", total)
	fmt.Printf("Unique clients: %d\n", clients)
	return nil
}

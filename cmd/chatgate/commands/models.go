package commands

import (
	"fmt"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/catalog"
	"github.com/averko/chatgate/pkg/chatgate/router"
	"github.com/spf13/cobra"
)

// newModelsCmd creates the `chatgate models` command listing the catalog
// with live availability.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		RunE:  runModels,
	}
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	apiKey := cfg.ResolveAPIKey(logger)

	callTimeout := time.Duration(cfg.Router.CallTimeoutSeconds) * time.Second
	rt := router.New(apiKey, callTimeout, logger)

	for _, id := range catalog.IDs() {
		m, _ := catalog.Get(id)
		marker := " "
		if id == catalog.DefaultModel {
			marker = "*"
		}
		state := "unavailable"
		if rt.IsLive(id) {
			state = "available"
		}
		fmt.Printf("%s %-24s %-11s %s (max %d tokens)\n", marker, m.ID, state, m.Description, m.MaxTokens)
	}
	fmt.Println("\n* default model")
	return nil
}

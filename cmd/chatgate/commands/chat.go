package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/provider"
	"github.com/averko/chatgate/pkg/chatgate/router"
	"github.com/spf13/cobra"
)

// newChatCmd creates the `chatgate chat` command for one-shot messages
// straight from the terminal, without going through the HTTP API.
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a single message to the model router",
		Long: `Send one message through the model router and print the reply.
History is not persisted; this is a direct probe of the provider.

Examples:
  chatgate chat "explain goroutines"
  chatgate chat -m gemini-2.5-flash-lite "what is 2+2?"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringP("model", "m", router.ModelAuto, "model id, or \"auto\" for routing")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	apiKey := cfg.ResolveAPIKey(logger)

	var opts []provider.Option
	if cfg.API.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.API.BaseURL))
	}
	callTimeout := time.Duration(cfg.Router.CallTimeoutSeconds) * time.Second
	rt := router.New(apiKey, callTimeout, logger, opts...)

	model, _ := cmd.Flags().GetString("model")
	reply, used := rt.Invoke(context.Background(), args[0], model)

	fmt.Println(reply)
	if used != router.ModelNone && used != router.ModelError {
		fmt.Printf("\n[%s]\n", used)
	}
	return nil
}

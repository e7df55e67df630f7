package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/averko/chatgate/pkg/chatgate/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newKeyCmd creates the `chatgate key` command managing the provider
// credential in the OS keyring.
func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the provider API key in the OS keyring",
		Long: `Store, inspect, or remove the provider API key in the OS keyring.
The keyring takes precedence over the ` + config.EnvAPIKey + ` environment
variable and over any key in the config file.

Examples:
  chatgate key set
  chatgate key show
  chatgate key delete`,
	}

	cmd.AddCommand(
		newKeySetCmd(),
		newKeyShowCmd(),
		newKeyDeleteCmd(),
	)
	return cmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store the API key (hidden input)",
		RunE: func(_ *cobra.Command, _ []string) error {
			key, err := readPassword("API key (hidden input): ")
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("empty key, nothing stored")
			}
			if err := config.StoreKeyring(key); err != nil {
				return fmt.Errorf("storing key: %w", err)
			}
			fmt.Println("API key stored in the OS keyring.")
			return nil
		},
	}
}

func newKeyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show whether a key is stored (masked)",
		RunE: func(_ *cobra.Command, _ []string) error {
			key := config.GetKeyring()
			if key == "" {
				fmt.Println("No API key in the OS keyring.")
				return nil
			}
			fmt.Printf("API key present: %s\n", mask(key))
			return nil
		},
	}
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the API key from the keyring",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.DeleteKeyring(); err != nil {
				return fmt.Errorf("deleting key: %w", err)
			}
			fmt.Println("API key removed from the OS keyring.")
			return nil
		},
	}
}

// readPassword reads a value from the terminal without echoing. Falls back
// to plain stdin when no terminal is available (piped input).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	raw, err := term.ReadPassword(fd)
	if err != nil {
		var buf [1024]byte
		n, readErr := os.Stdin.Read(buf[:])
		if readErr != nil {
			return "", fmt.Errorf("reading input: %w", readErr)
		}
		raw = buf[:n]
	}
	fmt.Println()

	return strings.TrimRight(string(raw), "\r\n"), nil
}

func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

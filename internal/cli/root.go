// Package cli implements fleetctl, the operator CLI for the fleet API.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:4040"

type options struct {
	server string
	token  string
	output string
	yes    bool
	dryRun bool

	client Client
	format formatter
}

// NewRootCmd builds the command tree. A nil client is replaced by an HTTP
// client for --server before any subcommand runs.
func NewRootCmd(client Client) *cobra.Command {
	opts := &options{client: client}

	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Manage WireGuard peers and address pools through the fleet API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := newFormatter(opts.output)
			if err != nil {
				return err
			}
			opts.format = format

			if opts.client != nil {
				return nil
			}
			opts.client, err = NewHTTPClient(opts.server, opts.token)
			return err
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("FLEET_SERVER", defaultServer), "fleet API URL (env FLEET_SERVER)")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("FLEET_TOKEN"), "bearer token (env FLEET_TOKEN)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json, yaml")
	root.PersistentFlags().BoolVar(&opts.yes, "yes", false, "skip confirmation prompts for destructive operations")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "print actions that would be taken without executing them")

	root.AddCommand(newPeersCmd(opts), newPoolsCmd(opts), newSealCmd())
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(in)
	scanner.Scan()
	return strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Flarenzy/wg-fleet/internal/sealbox"
)

func newSealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Manage the identity that seals peer private keys at rest",
		// Runs locally; no API client is needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}
	cmd.AddCommand(newSealKeygenCmd())
	return cmd
}

func newSealKeygenCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new seal identity for SEAL_IDENTITY",
		Long: `Generates an age X25519 identity. Set it as SEAL_IDENTITY (or
seal_identity in the config file) on the API server. Losing it makes every
stored private key unreadable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			box, identity, err := sealbox.Generate()
			if err != nil {
				return err
			}
			content := fmt.Sprintf("# recipient: %s\n%s\n", box.Recipient(), identity)

			if file == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("create identity file: %w", err)
			}
			if _, err := f.WriteString(content); err != nil {
				_ = f.Close()
				return fmt.Errorf("write identity file: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote identity to %s, recipient %s\n", file, box.Recipient())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write the identity to this file (mode 0600) instead of stdout")
	return cmd
}

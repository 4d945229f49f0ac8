package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"console-core/app/di"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an SSH key pair for provisioning",
	Long: `Ask the backend to generate an SSH key pair for server provisioning.

Without flags the keys are printed to stdout. With --out the pair is
written to <out> and <out>.pub, the private key with mode 0600.

Examples:
  setupctl keygen
  setupctl keygen --out ./backrest_key`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().String("out", "", "write the key pair to <out> and <out>.pub")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	return withContainer(func(c *di.Container) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		pair, err := c.Orchestrator.GenerateSSHKey(ctx)
		if err != nil {
			return fmt.Errorf("generating key pair: %w", err)
		}

		if out == "" {
			printer.Header("Public key")
			printer.Print("%s", pair.PublicKey)
			printer.Header("Private key")
			printer.Print("%s", pair.PrivateKey)
			return nil
		}

		if err := os.WriteFile(out, []byte(pair.PrivateKey), 0o600); err != nil {
			return fmt.Errorf("writing private key: %w", err)
		}
		if err := os.WriteFile(out+".pub", []byte(pair.PublicKey), 0o644); err != nil {
			return fmt.Errorf("writing public key: %w", err)
		}
		printer.Success("Key pair written to %s and %s.pub", out, out)
		return nil
	})
}

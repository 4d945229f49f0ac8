package cmd

import (
	"github.com/spf13/cobra"

	"console-core/app/di"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the cached provisioning status",
	Long: `Discard the cached provisioning status so the next check asks the
backend again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *di.Container) error {
			c.Orchestrator.ResetState()
			c.Cache.Clear()
			printer.Success("Provisioning status cache cleared")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

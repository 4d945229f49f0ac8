package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"console-core/app/di"
)

var markCompleteCmd = &cobra.Command{
	Use:   "mark-complete",
	Short: "Mark provisioning as complete",
	Long: `Mark the tenant's provisioning as complete on the backend.

The local status cache is updated first, so the console stops treating
the tenant as unprovisioned even when the backend call fails.`,
	RunE: runMarkComplete,
}

func init() {
	rootCmd.AddCommand(markCompleteCmd)

	markCompleteCmd.Flags().String("instance-id", "", "agent instance identifier")
	markCompleteCmd.Flags().Int64("server-id", 0, "registered server id")
	_ = markCompleteCmd.MarkFlagRequired("instance-id")
	_ = markCompleteCmd.MarkFlagRequired("server-id")
}

func runMarkComplete(cmd *cobra.Command, args []string) error {
	instanceID, _ := cmd.Flags().GetString("instance-id")
	serverID, _ := cmd.Flags().GetInt64("server-id")

	return withContainer(func(c *di.Container) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		result := c.Orchestrator.MarkSetupComplete(ctx, instanceID, serverID)
		if result.Warning {
			printer.Warning("%s", result.Message)
		} else {
			printer.Success("%s", result.Message)
		}
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"console-core/app/di"
)

var serviceStatusCmd = &cobra.Command{
	Use:   "service-status <server-id>",
	Short: "Check the backup agent service on a server",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceStatus,
}

func init() {
	rootCmd.AddCommand(serviceStatusCmd)
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	serverID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid server id %q", args[0])
	}

	return withContainer(func(c *di.Container) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		status := c.Orchestrator.CheckServiceStatus(ctx, serverID)
		if status.Running() {
			printer.Success("Service %s on server %d", status.Status, serverID)
		} else {
			printer.Warning("Service %s on server %d", status.Status, serverID)
		}
		if status.Message != "" {
			printer.Print("%s", status.Message)
		}
		return nil
	})
}

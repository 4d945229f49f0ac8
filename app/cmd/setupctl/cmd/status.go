package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"console-core/app/di"
	"console-core/app/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tenant's provisioning status",
	Long: `Display whether the current tenant still needs provisioning.

The cached status is used when it is fresh enough; --refresh always asks
the backend.

Examples:
  setupctl status              # Cached when fresh, backend otherwise
  setupctl status --refresh    # Always ask the backend
  setupctl status --json       # Output as JSON`,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("json", false, "output as JSON")
	statusCmd.Flags().Bool("refresh", false, "bypass the cached status")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	refresh, _ := cmd.Flags().GetBool("refresh")

	return withContainer(func(c *di.Container) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		status, err := c.Orchestrator.CheckSetupStatus(ctx, refresh)
		if err != nil {
			if errors.Is(err, domain.ErrTenantMissing) {
				return errors.New("no tenant session: run `setupctl login` first")
			}
			// A fetch failure still yields a safe degraded status.
			printer.Warning("Could not reach the backend: %v", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		printStatus(c, status)
		return nil
	})
}

func printStatus(c *di.Container, status *domain.SetupStatus) {
	tenant := c.Sessions.TenantName()
	if tenant != "" {
		printer.Header("Tenant " + tenant)
	}

	if status.SetupNeeded {
		printer.Warning("Provisioning required")
		if status.Step != "" {
			printer.Info("Next step: %s", status.Step)
		}
	} else {
		printer.Success("Provisioning complete")
	}
	if status.Message != "" {
		printer.Print("%s", status.Message)
	}
	if status.Timestamp != 0 {
		printer.Print("Checked %s ago", status.Age(time.Now()).Round(time.Second))
	}
}

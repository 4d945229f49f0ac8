package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"console-core/app/di"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain a tenant session",
	Long: `Authenticate against the public token endpoint and bind the local
session to the tenant the backend reports.

The password can be passed via --password or the SETUPCTL_PASSWORD
environment variable.

Examples:
  setupctl login -e admin@acme.com -p secret
  SETUPCTL_PASSWORD=secret setupctl login -e admin@acme.com`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("email", "e", "", "account email")
	loginCmd.Flags().StringP("password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = viper.BindPFlag("password", loginCmd.Flags().Lookup("password"))
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password := viper.GetString("password")
	if password == "" {
		return fmt.Errorf("no password given: use --password or SETUPCTL_PASSWORD")
	}

	return withContainer(func(c *di.Container) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		resp, err := c.Gateway.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		tenant := c.Sessions.TenantName()
		if tenant == "" {
			printer.Warning("Logged in, but the backend reported no tenant domain")
		} else {
			printer.Success("Logged in to tenant %s", printer.Bold(tenant))
		}
		if resp.User != nil {
			printer.Info("User: %s (%s)", resp.User.DisplayName(), resp.User.RoleInTenant)
		}

		// The deferred status refresh runs in the background; give it a
		// moment so the cache is warm before the process exits.
		time.Sleep(200 * time.Millisecond)
		return nil
	})
}

package cmd

import (
	"github.com/spf13/cobra"

	"console-core/app/di"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local tenant session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *di.Container) error {
			c.Gateway.Logout()
			printer.Success("Logged out")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

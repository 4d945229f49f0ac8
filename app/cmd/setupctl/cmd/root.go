// Package cmd contains all CLI commands for setupctl.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"console-core/app/cmd/setupctl/output"
	"console-core/app/config"
	"console-core/app/di"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "setupctl",
	Short: "Backup console provisioning CLI",
	Long: `setupctl drives the backup console's tenant session and server
provisioning workflow from the terminal.

It shares the console's local store, so a login here is visible to the
console server and vice versa.

Example usage:
  setupctl login -e admin@acme.com       # Obtain a tenant session
  setupctl status                        # Show provisioning status
  setupctl run --file setup.yaml         # Run the full provisioning flow
  setupctl keygen                        # Generate an SSH key pair`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("storage", "", "path to the local store (overrides STORAGE_PATH)")
	rootCmd.PersistentFlags().String("api-url", "", "public API origin (overrides PUBLIC_API_URL)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("storage", rootCmd.PersistentFlags().Lookup("storage"))
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.SetEnvPrefix("SETUPCTL")
	viper.AutomaticEnv()
}

// initConfig loads environment, config, and sets up the logger and printer.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if cfgFile != "" {
		os.Setenv("CONFIG_FILE", cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if storage := viper.GetString("storage"); storage != "" {
		cfg.StoragePath = storage
	}
	if apiURL := viper.GetString("api_url"); apiURL != "" {
		cfg.PublicAPIURL = apiURL
	}

	printer = output.NewPrinter(noColor)

	logger.Debug("configuration loaded",
		"storage_path", cfg.StoragePath,
		"public_api_url", cfg.PublicAPIURL,
	)
	return nil
}

// withContainer wires the full application core, runs fn, and tears the
// container down again. Every command that talks to the backend goes
// through here.
func withContainer(fn func(*di.Container) error) error {
	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer container.Close()
	return fn(container)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"console-core/app/cmd/setupctl/output"
	"console-core/app/di"
	"console-core/app/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full provisioning flow",
	Long: `Run the full provisioning flow: register the SSH key and server, test
the connection, install the backup agent, and configure its instance.

The run keeps going past individual step failures; only a failed server
registration aborts it. The exit code is non-zero only in that case.

Setup data comes from a YAML file or from flags; flags win over the file.

Example file:
  server:
    hostname: 10.0.0.5
    username: root
  ssh:
    public_key_file: ./backrest_key.pub
    private_key_file: ./backrest_key
  agent:
    port: 9898

Examples:
  setupctl run --file setup.yaml
  setupctl run --host 10.0.0.5 --user root --key ./backrest_key`,
	RunE: runProvisioning,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("file", "", "setup data YAML file")
	runCmd.Flags().String("host", "", "server hostname or IP")
	runCmd.Flags().String("user", "", "SSH username")
	runCmd.Flags().Int("ssh-port", 0, "SSH port")
	runCmd.Flags().String("key", "", "private key file; <key>.pub must exist next to it")
	runCmd.Flags().String("instance-id", "", "agent instance identifier")
}

// setupFile is the on-disk YAML schema. Key material can be inline or in
// files; files win when both are present.
type setupFile struct {
	Server domain.ServerConfig `yaml:"server"`
	SSH    struct {
		Name           string `yaml:"name"`
		PublicKey      string `yaml:"public_key"`
		PrivateKey     string `yaml:"private_key"`
		PublicKeyFile  string `yaml:"public_key_file"`
		PrivateKeyFile string `yaml:"private_key_file"`
	} `yaml:"ssh"`
	Agent domain.AgentConfig `yaml:"agent"`
}

func runProvisioning(cmd *cobra.Command, args []string) error {
	data, err := loadSetupData(cmd)
	if err != nil {
		return err
	}

	return withContainer(func(c *di.Container) error {
		if err := c.Validator.Validate(&data); err != nil {
			return fmt.Errorf("invalid setup data: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*cfg.HTTPTimeout)
		defer cancel()

		printer.Header("Provisioning " + data.Server.Hostname)
		result := c.Orchestrator.CompleteSetup(ctx, data)
		printRunResult(result)

		if !result.Success {
			return fmt.Errorf("provisioning failed: %s", result.Message)
		}
		return nil
	})
}

func loadSetupData(cmd *cobra.Command) (domain.SetupData, error) {
	var file setupFile

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return domain.SetupData{}, fmt.Errorf("reading setup file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return domain.SetupData{}, fmt.Errorf("parsing setup file: %w", err)
		}
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		file.Server.Hostname = host
	}
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		file.Server.Username = user
	}
	if port, _ := cmd.Flags().GetInt("ssh-port"); port != 0 {
		file.Server.Port = port
	}
	if instanceID, _ := cmd.Flags().GetString("instance-id"); instanceID != "" {
		file.Agent.InstanceID = instanceID
	}
	if key, _ := cmd.Flags().GetString("key"); key != "" {
		file.SSH.PrivateKeyFile = key
		file.SSH.PublicKeyFile = key + ".pub"
	}

	ssh := domain.SSHKeyConfig{
		Name:       file.SSH.Name,
		PublicKey:  file.SSH.PublicKey,
		PrivateKey: file.SSH.PrivateKey,
	}
	if file.SSH.PrivateKeyFile != "" {
		raw, err := os.ReadFile(file.SSH.PrivateKeyFile)
		if err != nil {
			return domain.SetupData{}, fmt.Errorf("reading private key: %w", err)
		}
		ssh.PrivateKey = string(raw)
	}
	if file.SSH.PublicKeyFile != "" {
		raw, err := os.ReadFile(file.SSH.PublicKeyFile)
		if err != nil {
			return domain.SetupData{}, fmt.Errorf("reading public key: %w", err)
		}
		ssh.PublicKey = string(raw)
	}
	if ssh.PublicKey == "" || ssh.PrivateKey == "" {
		return domain.SetupData{}, fmt.Errorf("SSH key material missing: use --key, the setup file, or `setupctl keygen` first")
	}

	return domain.SetupData{Server: file.Server, SSH: ssh, Agent: file.Agent}, nil
}

func printRunResult(result *domain.SetupResult) {
	steps := []struct {
		name string
		res  domain.StepResult
	}{
		{"SSH key", result.SSHKey},
		{"Server", result.Server},
		{"Connection", result.Connection},
		{"Installation", result.Installation},
		{"Instance", result.Instance},
	}

	table := output.NewTable([]string{"", "STEP", "MESSAGE"})
	for _, step := range steps {
		table.AddRow([]string{
			printer.StepBadge(step.res.Success, step.res.Partial),
			step.name,
			step.res.Message,
		})
	}
	if result.ServiceStatus != nil {
		table.AddRow([]string{
			printer.StepBadge(result.ServiceStatus.Running(), false),
			"Service",
			result.ServiceStatus.Message,
		})
	}
	table.Render()
	printer.Print("")

	switch {
	case !result.Success:
		printer.Error("%s", result.Message)
	case result.Partial:
		printer.Warning("%s (some steps degraded)", result.Message)
	default:
		printer.Success("%s", result.Message)
	}
	if result.ServerID != 0 {
		printer.Info("Server ID: %s", strconv.FormatInt(result.ServerID, 10))
	}
	if result.InstanceID != "" {
		printer.Info("Instance:  %s", result.InstanceID)
	}
}

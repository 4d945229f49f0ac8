package domain

import "time"

// SetupStatus is the provisioning status of the current tenant as reported by
// GET backrest/status/, merged with the local cache timestamp. Timestamp is
// epoch milliseconds, stamped on every cache write.
type SetupStatus struct {
	SetupNeeded bool   `json:"setupNeeded"`
	Message     string `json:"message,omitempty"`
	Step        string `json:"step,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}

// Age returns how long ago the status was written, relative to now.
func (s *SetupStatus) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.Timestamp))
}

// ProvisioningPhase labels how far a provisioning run has progressed.
type ProvisioningPhase string

const (
	PhaseIdle               ProvisioningPhase = "idle"
	PhaseSSHKeyRegistered   ProvisioningPhase = "ssh_key_registered"
	PhaseServerRegistered   ProvisioningPhase = "server_registered"
	PhaseConnectionTested   ProvisioningPhase = "connection_tested"
	PhaseAgentInstalled     ProvisioningPhase = "agent_installed"
	PhaseInstanceConfigured ProvisioningPhase = "instance_configured"
	PhaseServiceVerified    ProvisioningPhase = "service_verified"
	PhaseComplete           ProvisioningPhase = "complete"
)

// SSHKeyConfig is the key material registered as the first provisioning step.
type SSHKeyConfig struct {
	Name       string `json:"name,omitempty"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Passphrase string `json:"passphrase,omitempty"`
}

// SSHKeyPair is a freshly generated key pair from POST ssh/generate.
type SSHKeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// ServerConfig describes the remote server to register.
type ServerConfig struct {
	Name        string `json:"name,omitempty"`
	Hostname    string `json:"hostname" validate:"required"`
	IPAddress   string `json:"ip_address,omitempty"`
	Username    string `json:"username" validate:"required"`
	Port        int    `json:"port,omitempty"`
	Description string `json:"description,omitempty"`
}

// AgentConfig describes the backup-agent installation parameters.
type AgentConfig struct {
	InstallPath     string `json:"install_path,omitempty"`
	Port            int    `json:"port,omitempty"`
	AutoStart       *bool  `json:"auto_start,omitempty"`
	InstanceID      string `json:"instance_id,omitempty"`
	AdminUsername   string `json:"admin_username,omitempty"`
	AdminPassword   string `json:"admin_password,omitempty"`
	DefaultPassword string `json:"default_password,omitempty"`
}

// SetupData is the full input of a provisioning run.
type SetupData struct {
	Server ServerConfig `json:"server" validate:"required"`
	SSH    SSHKeyConfig `json:"ssh" validate:"required"`
	Agent  AgentConfig  `json:"backrest"`
}

// StepResult is the observable outcome of one provisioning step. Steps report
// failure through the Success flag rather than an error so a run can inspect
// and tolerate individual failures without aborting.
type StepResult struct {
	Success bool   `json:"success"`
	Partial bool   `json:"partial,omitempty"`
	Warning bool   `json:"warning,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
	ID      int64  `json:"id,omitempty"`
}

// ServiceStatus is the live agent service state from check_service_status.
type ServiceStatus struct {
	Status    string `json:"status"`
	IsRunning bool   `json:"is_running"`
	Message   string `json:"message,omitempty"`
}

// Running reports whether the agent service is considered up.
func (s *ServiceStatus) Running() bool {
	if s == nil {
		return false
	}
	return s.Status == "active" || s.IsRunning
}

// SetupResult is the composite outcome of a full provisioning run. Success is
// false only when server registration never produced a server id; failures at
// or after the connection test degrade to Partial, never to overall failure.
type SetupResult struct {
	Success       bool           `json:"success"`
	Partial       bool           `json:"partial,omitempty"`
	Message       string         `json:"message,omitempty"`
	ServerID      int64          `json:"server_id,omitempty"`
	InstanceID    string         `json:"instance_id,omitempty"`
	SSHKey        StepResult     `json:"ssh_key"`
	Server        StepResult     `json:"server"`
	Connection    StepResult     `json:"connection"`
	Installation  StepResult     `json:"installation"`
	Instance      StepResult     `json:"instance"`
	ServiceStatus *ServiceStatus `json:"service_status,omitempty"`
}

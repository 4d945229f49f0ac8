package setup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"console-core/app/domain"
	"console-core/app/port"
)

// Orchestrator drives the server-provisioning workflow: register SSH key,
// register server, test connection, install the agent, configure the
// instance, verify the service. The run is fail-forward: once a server id
// exists, later failures degrade the result to partial instead of failing it,
// so an ambiguous remote install never strands the tenant on the setup
// screen. Step identifiers (sshKeyID, serverID) live for the process only.
type Orchestrator struct {
	mu          sync.Mutex
	api         port.BackrestAPI
	cache       *StatusCache
	logger      *slog.Logger
	now         func() time.Time
	phase       domain.ProvisioningPhase
	sshKeyID    int64
	serverID    int64
	lastInstall *domain.AgentConfig
}

// NewOrchestrator creates a provisioning orchestrator.
func NewOrchestrator(api port.BackrestAPI, cache *StatusCache, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    api,
		cache:  cache,
		logger: logger.With("component", "setup_orchestrator"),
		now:    time.Now,
		phase:  domain.PhaseIdle,
	}
}

// Phase returns how far the current run has progressed.
func (o *Orchestrator) Phase() domain.ProvisioningPhase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// ServerID returns the server id captured by the current run, 0 when absent.
func (o *Orchestrator) ServerID() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.serverID
}

// ResetState drops the captured step identifiers for a fresh run.
func (o *Orchestrator) ResetState() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sshKeyID = 0
	o.serverID = 0
	o.phase = domain.PhaseIdle
}

// GenerateSSHKey asks the backend for a fresh key pair.
func (o *Orchestrator) GenerateSSHKey(ctx context.Context) (*domain.SSHKeyPair, error) {
	return o.api.GenerateSSHKey(ctx)
}

// RegisterSSHKey registers key material and captures the resulting key id.
// Failure comes back as a result value so a run can inspect it and stop
// without an error path.
func (o *Orchestrator) RegisterSSHKey(ctx context.Context, cfg domain.SSHKeyConfig) domain.StepResult {
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Key-%d", o.now().UnixMilli())
	}
	payload := map[string]any{
		"name":        name,
		"public_key":  cfg.PublicKey,
		"private_key": cfg.PrivateKey,
	}

	result, err := o.api.CreateSSHKey(ctx, payload)
	if err != nil {
		o.logger.Error("ssh key registration failed", "error", err)
		return domain.StepResult{Message: "Failed to register SSH key: " + reason(err)}
	}

	o.mu.Lock()
	if result.ID != 0 {
		o.sshKeyID = result.ID
		o.phase = domain.PhaseSSHKeyRegistered
	}
	o.mu.Unlock()

	result.Success = result.ID != 0
	return *result
}

// RegisterServer registers the remote server, defaulting missing fields.
// Requires a captured SSH key id; without one it fails locally before any
// network call.
func (o *Orchestrator) RegisterServer(ctx context.Context, cfg domain.ServerConfig) domain.StepResult {
	o.mu.Lock()
	sshKeyID := o.sshKeyID
	o.mu.Unlock()

	if sshKeyID == 0 {
		o.logger.Error("server registration attempted without ssh key")
		return domain.StepResult{Message: "No SSH key ID available. Register SSH key first."}
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Server-%d", o.now().UnixMilli())
	}
	ipAddress := cfg.IPAddress
	if ipAddress == "" {
		ipAddress = cfg.Hostname
	}
	sshPort := cfg.Port
	if sshPort == 0 {
		sshPort = 22
	}
	payload := map[string]any{
		"name":        name,
		"hostname":    cfg.Hostname,
		"ip_address":  ipAddress,
		"ssh_user":    cfg.Username,
		"ssh_key":     sshKeyID,
		"ssh_port":    sshPort,
		"description": cfg.Description,
	}

	result, err := o.api.CreateServer(ctx, payload)
	if err != nil {
		o.logger.Error("server registration failed", "error", err)
		return domain.StepResult{Message: "Failed to register server: " + reason(err)}
	}

	o.mu.Lock()
	if result.ID != 0 {
		o.serverID = result.ID
		o.phase = domain.PhaseServerRegistered
	}
	o.mu.Unlock()

	result.Success = result.ID != 0
	return *result
}

// TestConnection checks SSH reachability of the registered server. Failure
// never halts a run; installation proceeds regardless.
func (o *Orchestrator) TestConnection(ctx context.Context) domain.StepResult {
	o.mu.Lock()
	serverID := o.serverID
	o.mu.Unlock()

	if serverID == 0 {
		o.logger.Error("connection test attempted without server")
		return domain.StepResult{Message: "No server ID available. Register server first."}
	}

	result, err := o.api.TestConnection(ctx, serverID)
	if err != nil {
		o.logger.Error("connection test failed", "server_id", serverID, "error", err)
		return domain.StepResult{Status: "error", Message: "Failed to connect to server: " + reason(err)}
	}

	o.mu.Lock()
	o.phase = domain.PhaseConnectionTested
	o.mu.Unlock()
	result.Success = true
	return *result
}

// InstallAgent installs the backup agent on the registered server. The
// storage config sent here is a placeholder; the agent is reconfigured after
// setup. The install parameters are remembered for mark-complete calls.
func (o *Orchestrator) InstallAgent(ctx context.Context, cfg domain.AgentConfig) domain.StepResult {
	saved := cfg
	o.mu.Lock()
	o.lastInstall = &saved
	serverID := o.serverID
	o.mu.Unlock()

	if serverID == 0 {
		o.logger.Error("agent install attempted without server")
		return domain.StepResult{Message: "No server ID available. Register server first."}
	}

	autoStart := true
	if cfg.AutoStart != nil {
		autoStart = *cfg.AutoStart
	}
	payload := map[string]any{
		"install_path": installPathOrDefault(cfg.InstallPath),
		"port":         agentPortOrDefault(cfg.Port),
		"auto_start":   autoStart,
		"storage_config": map[string]any{
			"type":       "local",
			"local_path": "/tmp/backrest-tmp",
		},
	}

	result, err := o.api.InstallAgent(ctx, serverID, payload)
	if err != nil {
		o.logger.Error("agent installation failed", "server_id", serverID, "error", err)
		return domain.StepResult{Message: "Failed to install Backrest: " + reason(err)}
	}

	o.mu.Lock()
	o.phase = domain.PhaseAgentInstalled
	o.mu.Unlock()
	result.Success = true
	return *result
}

// ConfigureInstance configures the installed agent with users and auth
// settings. The local cache is marked complete before the backend call so a
// slow or failing configuration never traps the user in the setup screen,
// and a best-effort mark-complete call persists completion server-side on
// success and failure alike. A backend failure therefore degrades to a
// partial success, not a failure.
func (o *Orchestrator) ConfigureInstance(ctx context.Context, cfg domain.AgentConfig) domain.StepResult {
	o.mu.Lock()
	serverID := o.serverID
	o.mu.Unlock()

	if serverID == 0 {
		o.logger.Error("instance setup attempted without server")
		return domain.StepResult{Message: "No server ID available. Register server first."}
	}

	instanceID := cfg.InstanceID
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", o.now().UnixMilli())
	}
	adminUser := cfg.AdminUsername
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	defaultPassword := cfg.DefaultPassword
	if defaultPassword == "" {
		defaultPassword = "backrest123"
	}
	payload := map[string]any{
		"instance_id":  instanceID,
		"disable_auth": true,
		"users": []map[string]any{
			{"name": adminUser, "password": adminPassword},
		},
		"default_password": defaultPassword,
	}

	// Optimistic completion, before the call.
	o.ForceMarkSetupComplete()

	result, err := o.api.SetupInstance(ctx, serverID, payload)
	if err != nil {
		o.logger.Error("instance setup failed", "server_id", serverID, "error", err)
		o.markCompleteBestEffort(ctx, instanceID, serverID)
		return domain.StepResult{
			Success: true,
			Partial: true,
			Warning: true,
			Message: "Backrest was installed but instance setup encountered issues - may require manual configuration",
		}
	}

	o.markCompleteBestEffort(ctx, instanceID, serverID)

	o.mu.Lock()
	o.phase = domain.PhaseInstanceConfigured
	o.mu.Unlock()
	result.Success = true
	return *result
}

// VerifyServiceStatus reads the live service state of the registered server.
// A probe failure is reported as an unknown status, never as an error.
func (o *Orchestrator) VerifyServiceStatus(ctx context.Context) *domain.ServiceStatus {
	o.mu.Lock()
	serverID := o.serverID
	o.mu.Unlock()
	return o.CheckServiceStatus(ctx, serverID)
}

// CheckServiceStatus reads the live service state of serverID. A running
// service re-affirms local setup completion.
func (o *Orchestrator) CheckServiceStatus(ctx context.Context, serverID int64) *domain.ServiceStatus {
	status, err := o.api.CheckServiceStatus(ctx, serverID)
	if err != nil {
		o.logger.Error("service status check failed", "server_id", serverID, "error", err)
		return &domain.ServiceStatus{
			Status:    "unknown",
			IsRunning: false,
			Message:   "Failed to check Backrest service status",
		}
	}
	if status.Running() {
		o.ForceMarkSetupComplete()
	}
	return status
}

// CompleteSetup runs the full provisioning workflow sequentially. The run is
// reset first, discarding identifiers from any earlier run. The composite
// result fails only when no server id could be obtained; every later failure
// degrades to a partial success carrying the per-step outcomes.
func (o *Orchestrator) CompleteSetup(ctx context.Context, data domain.SetupData) *domain.SetupResult {
	o.ResetState()
	o.logger.Info("starting provisioning run", "hostname", data.Server.Hostname)

	result := &domain.SetupResult{}

	sshName := data.SSH.Name
	if sshName == "" {
		target := data.Server.Name
		if target == "" {
			target = data.Server.Hostname
		}
		sshName = "Key for " + target
	}
	result.SSHKey = o.RegisterSSHKey(ctx, domain.SSHKeyConfig{
		Name:       sshName,
		PublicKey:  data.SSH.PublicKey,
		PrivateKey: data.SSH.PrivateKey,
		Passphrase: data.SSH.Passphrase,
	})
	if !result.SSHKey.Success {
		result.Message = result.SSHKey.Message
		return result
	}

	result.Server = o.RegisterServer(ctx, data.Server)
	o.mu.Lock()
	serverID := o.serverID
	o.mu.Unlock()
	if serverID == 0 {
		result.Message = "Server registration failed, cannot continue with setup"
		return result
	}
	result.ServerID = serverID

	result.Connection = o.TestConnection(ctx)
	if !result.Connection.Success {
		o.logger.Warn("connection test failed, continuing with installation",
			"message", result.Connection.Message)
	}

	result.Installation = o.InstallAgent(ctx, data.Agent)
	if !result.Installation.Success {
		// Recovery probe: an install that failed to confirm may still have
		// left a running service behind.
		probe := o.CheckServiceStatus(ctx, serverID)
		if probe.Running() {
			o.logger.Info("installation reported issues but service is running", "server_id", serverID)
			result.Installation.Success = true
			result.Installation.Partial = true
			result.Installation.Message = "Installation reported issues, but service appears to be running"
			o.mu.Lock()
			o.phase = domain.PhaseAgentInstalled
			o.mu.Unlock()
		}
	}

	instanceID := data.Agent.InstanceID
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", o.now().UnixMilli())
	}
	result.InstanceID = instanceID

	agent := data.Agent
	agent.InstanceID = instanceID
	result.Instance = o.ConfigureInstance(ctx, agent)

	result.ServiceStatus = o.VerifyServiceStatus(ctx)

	o.mu.Lock()
	o.phase = domain.PhaseComplete
	o.mu.Unlock()

	result.Success = true
	result.Partial = result.Installation.Partial || result.Instance.Partial ||
		!result.Installation.Success || !result.Connection.Success
	result.Message = "Setup process completed"
	o.logger.Info("provisioning run finished",
		"server_id", serverID,
		"instance_id", instanceID,
		"partial", result.Partial)
	return result
}

// MarkSetupComplete persists completion server-side for a known instance.
// Local completion is written first; a failed backend call is reported as a
// local-only success.
func (o *Orchestrator) MarkSetupComplete(ctx context.Context, instanceID string, serverID int64) domain.StepResult {
	o.ForceMarkSetupComplete()

	o.mu.Lock()
	last := o.lastInstall
	o.mu.Unlock()

	installPath := "/opt/backrest"
	agentPort := 9898
	if last != nil {
		installPath = installPathOrDefault(last.InstallPath)
		agentPort = agentPortOrDefault(last.Port)
	}
	payload := map[string]any{
		"server_id":    serverID,
		"instance_id":  instanceID,
		"install_path": installPath,
		"port":         agentPort,
	}

	result, err := o.api.MarkInstanceComplete(ctx, instanceID, payload)
	if err != nil {
		o.logger.Warn("marking setup complete failed, keeping local completion", "error", err)
		return domain.StepResult{
			Success: true,
			Message: "Setup marked as complete locally",
		}
	}
	result.Success = true
	return *result
}

// ForceMarkSetupComplete writes completion to the local cache only.
func (o *Orchestrator) ForceMarkSetupComplete() {
	o.cache.Write(domain.SetupStatus{SetupNeeded: false})
}

// CheckSetupStatus returns the tenant's setup status, preferring a cached
// entry younger than the fallback window unless skipCache is set. A fetch
// failure clears the cache and returns a degraded setup-needed status
// alongside the error, so callers can tell transport failure from a genuine
// unprovisioned tenant.
func (o *Orchestrator) CheckSetupStatus(ctx context.Context, skipCache bool) (*domain.SetupStatus, error) {
	if !skipCache {
		if cached := o.cache.Read(); o.cache.IsUsableFallback(cached) {
			o.logger.Debug("using cached setup status", "setup_needed", cached.SetupNeeded)
			return cached, nil
		}
	}

	status, err := o.api.FetchSetupStatus(ctx)
	if err != nil {
		o.logger.Error("setup status check failed", "error", err)
		o.cache.Clear()
		return &domain.SetupStatus{SetupNeeded: true}, err
	}

	o.cache.Write(*status)
	return o.cache.Read(), nil
}

// ForceCheckSetupStatus bypasses and clears the cache, then fetches from the
// backend. On failure a setup-needed status is cached and returned with the
// error.
func (o *Orchestrator) ForceCheckSetupStatus(ctx context.Context) (*domain.SetupStatus, error) {
	o.cache.Clear()

	status, err := o.api.FetchSetupStatus(ctx)
	if err != nil {
		o.logger.Error("forced setup status check failed", "error", err)
		o.cache.Write(domain.SetupStatus{SetupNeeded: true})
		return o.cache.Read(), err
	}

	o.cache.Write(*status)
	return o.cache.Read(), nil
}

func (o *Orchestrator) markCompleteBestEffort(ctx context.Context, instanceID string, serverID int64) {
	if result := o.MarkSetupComplete(ctx, instanceID, serverID); !result.Success {
		o.logger.Warn("mark-complete call failed", "instance_id", instanceID)
	}
}

func installPathOrDefault(path string) string {
	if path == "" {
		return "/opt/backrest"
	}
	return path
}

func agentPortOrDefault(port int) int {
	if port == 0 {
		return 9898
	}
	return port
}

func reason(err error) string {
	if err == nil {
		return "Unknown error"
	}
	type reasoner interface{ Reason() string }
	if r, ok := err.(reasoner); ok {
		return r.Reason()
	}
	return err.Error()
}

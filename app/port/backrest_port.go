package port

//go:generate mockgen -source=backrest_port.go -destination=../mocks/mock_backrest_port.go -package=mocks

import (
	"context"

	"console-core/app/domain"
)

// BackrestAPI is the HTTP surface the console consumes. Token and signup
// calls go to the public origin; everything else is tenant-scoped and fails
// closed when no tenant is bound.
type BackrestAPI interface {
	// Public origin
	ObtainToken(ctx context.Context, email, password string) (*domain.TokenResponse, error)
	SignupTenant(ctx context.Context, req *domain.SignupRequest) (*domain.SignupResponse, error)

	// Tenant origin
	FetchSetupStatus(ctx context.Context) (*domain.SetupStatus, error)
	GenerateSSHKey(ctx context.Context) (*domain.SSHKeyPair, error)
	CreateSSHKey(ctx context.Context, payload map[string]any) (*domain.StepResult, error)
	CreateServer(ctx context.Context, payload map[string]any) (*domain.StepResult, error)
	TestConnection(ctx context.Context, serverID int64) (*domain.StepResult, error)
	InstallAgent(ctx context.Context, serverID int64, payload map[string]any) (*domain.StepResult, error)
	SetupInstance(ctx context.Context, serverID int64, payload map[string]any) (*domain.StepResult, error)
	CheckServiceStatus(ctx context.Context, serverID int64) (*domain.ServiceStatus, error)
	MarkInstanceComplete(ctx context.Context, instanceID string, payload map[string]any) (*domain.StepResult, error)
}

// SetupStatusChecker is the slice of the orchestrator the auth gateway and
// the setup guard depend on.
type SetupStatusChecker interface {
	CheckSetupStatus(ctx context.Context, skipCache bool) (*domain.SetupStatus, error)
	ForceCheckSetupStatus(ctx context.Context) (*domain.SetupStatus, error)
}

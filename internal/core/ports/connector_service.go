package ports

import (
	"context"
	"time"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

type LinkCodeInput struct {
	ConnectorName      string
	ConnectorVersion   string
	MachineFingerprint string
}

type LinkCodeResult struct {
	Code      string
	ExpiresAt time.Time
}

type RegisterConnectorInput struct {
	LinkCode           string
	MachineFingerprint string
	ConnectorName      string
	ConnectorVersion   string
	Type               string
	Empresas           []domain.Empresa
	IP                 string
}

// SyncConfig tells a connector how often to call back.
type SyncConfig struct {
	SyncIntervalMinutes      int
	HeartbeatIntervalMinutes int
}

type ConnectorCredentials struct {
	ConnectorID string
	Tokens      TokenPair
	Config      SyncConfig
}

type ConnectorCommand struct {
	Type    string
	Payload any
}

type HeartbeatResult struct {
	Ack        bool
	ServerTime time.Time
	Commands   []ConnectorCommand
}

type ConnectorService interface {
	GenerateLinkCode(ctx context.Context, principal domain.Principal, in LinkCodeInput) (*LinkCodeResult, error)
	Register(ctx context.Context, in RegisterConnectorInput) (*ConnectorCredentials, error)
	Heartbeat(ctx context.Context, principal domain.Principal, hb domain.Heartbeat) (*HeartbeatResult, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*ConnectorCredentials, error)
	List(ctx context.Context, principal domain.Principal) ([]domain.Connector, error)
}

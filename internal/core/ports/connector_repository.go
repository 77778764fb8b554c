package ports

import (
	"context"
	"time"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

type ConnectorRepository interface {
	Create(ctx context.Context, c *domain.Connector) error
	FindByID(ctx context.Context, organizationID, id string) (*domain.Connector, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Connector, error)
	RecordHeartbeat(ctx context.Context, organizationID, id string, status domain.ConnectorStatus, hb domain.Heartbeat) error
	TouchSync(ctx context.Context, organizationID, id string, at time.Time) error
}

type LinkCodeRepository interface {
	Create(ctx context.Context, lc *domain.LinkCode) error
	// Redeem atomically marks as used the unused, unexpired code matching both
	// code and fingerprint. Any miss yields domain.ErrLinkCodeInvalid.
	Redeem(ctx context.Context, code, fingerprint string, now time.Time) (*domain.LinkCode, error)
}

package ports

import (
	"context"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// UserRepository persists web users. Emails are unique across the system
// because login is by email alone.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID only matches users of organizationID.
	FindByID(ctx context.Context, organizationID, id string) (*domain.User, error)
	// UpdateLoginState writes the lockout counters and last-login timestamp.
	UpdateLoginState(ctx context.Context, user *domain.User) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	FindByID(ctx context.Context, id string) (*domain.Organization, error)
}

// RefreshTokenRepository stores refresh tokens. Revocations are conditional on
// the token still being unrevoked so concurrent redemptions cannot both win.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Revoke retires token if it is not revoked yet. It reports false when
	// another caller revoked it first.
	Revoke(ctx context.Context, token string, rev domain.Revocation) (bool, error)
	// RevokeAllActive retires every unrevoked, unexpired token of owner.
	RevokeAllActive(ctx context.Context, owner domain.TokenOwner, rev domain.Revocation) (int64, error)
	// RevokeActiveBeyond keeps the newest keep active tokens of owner and
	// retires the rest.
	RevokeActiveBeyond(ctx context.Context, owner domain.TokenOwner, keep int, rev domain.Revocation) (int64, error)
}

package domain

import "time"

// OwnerKind discriminates the two possible owners of a refresh token.
type OwnerKind string

const (
	OwnerUser      OwnerKind = "user"
	OwnerConnector OwnerKind = "connector"
)

type TokenOwner struct {
	Kind OwnerKind
	ID   string
}

const (
	ReasonReplaced    = "Replaced by new token"
	ReasonReuse       = "Attempted reuse of revoked ancestor token"
	ReasonNewLogin    = "Replaced by new login"
	ReasonLoggedOut   = "Logged out"
	MaxActiveSessions = 5
)

// RefreshToken is an opaque, server-side session credential. Tokens are never
// deleted; revocation keeps the rotation chain auditable through
// ReplacedByToken.
type RefreshToken struct {
	ID              string
	Token           string
	Owner           TokenOwner
	OrganizationID  string
	ExpiresAt       time.Time
	CreatedAt       time.Time
	CreatedByIP     string
	RevokedAt       *time.Time
	RevokedByIP     string
	ReplacedByToken string
	ReasonRevoked   string
}

func (t *RefreshToken) IsRevoked() bool { return t.RevokedAt != nil }

func (t *RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}

// Revocation describes how an active token was retired.
type Revocation struct {
	At         time.Time
	ByIP       string
	Reason     string
	ReplacedBy string
}

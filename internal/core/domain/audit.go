package domain

import "time"

// AuditAction names a security or data-plane event worth keeping.
type AuditAction string

const (
	AuditLoginFailed         AuditAction = "login_failed"
	AuditAccountLocked       AuditAction = "account_locked"
	AuditTokenReuseDetected  AuditAction = "token_reuse_detected"
	AuditConnectorRegistered AuditAction = "connector_registered"
	AuditSyncCompleted       AuditAction = "sync_completed"
)

// AuditEvent is an append-only record of something that happened inside a
// tenant. OrganizationID may be empty for pre-authentication failures.
type AuditEvent struct {
	OrganizationID string
	Action         AuditAction
	ActorKind      OwnerKind
	ActorID        string
	IP             string
	Details        map[string]any
	OccurredAt     time.Time
}

package ports

import (
	"context"
	"errors"
	"time"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// Transactor runs fn atomically. fn may be invoked more than once when the
// store retries a transient conflict, so it must not keep state across calls.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrCacheMiss is returned by Cache.Get when key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a best-effort byte store. Callers treat every error as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	RemoveByPattern(ctx context.Context, pattern string) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

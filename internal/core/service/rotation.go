package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/metrics"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// principalLoader resolves the current principal of a refresh token's owner.
// It returns domain.ErrInvalidToken when the owner can no longer sign in.
type principalLoader func(ctx context.Context, token *domain.RefreshToken) (domain.Principal, error)

// tokenRotator redeems refresh tokens for users and connectors alike.
type tokenRotator struct {
	tokens ports.RefreshTokenRepository
	tx     ports.Transactor
	issuer *TokenService
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

type rotation struct {
	principal domain.Principal
	pair      ports.TokenPair
}

// rotate exchanges presented for a fresh pair. A presented token that is
// already revoked, or that loses a concurrent redemption, is treated as
// stolen: every active token of its owner is revoked and the call fails like
// any other invalid token.
func (r *tokenRotator) rotate(ctx context.Context, presented string, kind domain.OwnerKind, ip string, load principalLoader) (*rotation, error) {
	if presented == "" {
		return nil, domain.ErrInvalidToken
	}

	var (
		out      *rotation
		reused   *domain.RefreshToken
		cascaded int64
	)
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		out, reused, cascaded = nil, nil, 0

		current, err := r.tokens.FindByToken(ctx, presented)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		if err != nil {
			return fmt.Errorf("find refresh token: %w", err)
		}
		if current.Owner.Kind != kind {
			return domain.ErrInvalidToken
		}

		now := r.now()
		if current.IsRevoked() {
			reused = current
			cascaded, err = r.revokeFamily(ctx, current.Owner, ip, now)
			return err
		}
		if current.IsExpired(now) {
			return domain.ErrInvalidToken
		}

		principal, err := load(ctx, current)
		if err != nil {
			return err
		}
		next, err := r.issuer.NewRefreshToken(current.Owner, current.OrganizationID, ip)
		if err != nil {
			return err
		}

		won, err := r.tokens.Revoke(ctx, current.Token, domain.Revocation{
			At:         now,
			ByIP:       ip,
			Reason:     domain.ReasonReplaced,
			ReplacedBy: next.Token,
		})
		if err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		if !won {
			reused = current
			cascaded, err = r.revokeFamily(ctx, current.Owner, ip, now)
			return err
		}

		if err := r.tokens.Create(ctx, next); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
		access, ttl, err := r.issuer.IssueAccess(principal)
		if err != nil {
			return err
		}
		out = &rotation{
			principal: principal,
			pair: ports.TokenPair{
				AccessToken:  access,
				RefreshToken: next.Token,
				ExpiresIn:    int(ttl.Seconds()),
			},
		}
		return nil
	})

	owner := string(kind)
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		metrics.TokenRefreshTotal.WithLabelValues(owner, "invalid").Inc()
		return nil, err
	case err != nil:
		return nil, err
	case reused != nil:
		metrics.TokenRefreshTotal.WithLabelValues(owner, "reuse_detected").Inc()
		metrics.TokensRevokedTotal.WithLabelValues(domain.ReasonReuse).Add(float64(cascaded))
		r.log.Warn().
			Str("owner_kind", owner).
			Str("owner_id", reused.Owner.ID).
			Str("organization_id", reused.OrganizationID).
			Str("ip", ip).
			Int64("revoked", cascaded).
			Msg("refresh token reuse detected, revoked token family")
		r.audit.Record(domain.AuditEvent{
			OrganizationID: reused.OrganizationID,
			Action:         domain.AuditTokenReuseDetected,
			ActorKind:      reused.Owner.Kind,
			ActorID:        reused.Owner.ID,
			IP:             ip,
			Details:        map[string]any{"revoked": cascaded},
			OccurredAt:     r.now(),
		})
		return nil, domain.ErrInvalidToken
	}

	metrics.TokenRefreshTotal.WithLabelValues(owner, "rotated").Inc()
	metrics.TokensRevokedTotal.WithLabelValues(domain.ReasonReplaced).Inc()
	return out, nil
}

func (r *tokenRotator) revokeFamily(ctx context.Context, owner domain.TokenOwner, ip string, now time.Time) (int64, error) {
	n, err := r.tokens.RevokeAllActive(ctx, owner, domain.Revocation{
		At:     now,
		ByIP:   ip,
		Reason: domain.ReasonReuse,
	})
	if err != nil {
		return 0, fmt.Errorf("revoke token family: %w", err)
	}
	return n, nil
}

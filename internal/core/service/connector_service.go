package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/metrics"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/ids"
)

// linkCodeAttempts bounds the draws made when a code collides with one
// still stored.
const linkCodeAttempts = 3

// DefaultSyncConfig is handed to every connector on registration and refresh.
var DefaultSyncConfig = ports.SyncConfig{SyncIntervalMinutes: 15, HeartbeatIntervalMinutes: 5}

type ConnectorDeps struct {
	Connectors    ports.ConnectorRepository
	LinkCodes     ports.LinkCodeRepository
	RefreshTokens ports.RefreshTokenRepository
	Transactor    ports.Transactor
	Tokens        *TokenService
	Audit         ports.AuditRecorder
}

// ConnectorService pairs connectors through link codes and keeps their
// sessions and liveness.
type ConnectorService struct {
	connectors ports.ConnectorRepository
	linkCodes  ports.LinkCodeRepository
	tokens     ports.RefreshTokenRepository
	tx         ports.Transactor
	issuer     *TokenService
	audit      ports.AuditRecorder
	rotator    *tokenRotator
	log        zerolog.Logger
	now        func() time.Time
	rand       io.Reader
}

func NewConnectorService(deps ConnectorDeps, log zerolog.Logger, opts ...Option) *ConnectorService {
	o := applyOptions(opts)
	return &ConnectorService{
		connectors: deps.Connectors,
		linkCodes:  deps.LinkCodes,
		tokens:     deps.RefreshTokens,
		tx:         deps.Transactor,
		issuer:     deps.Tokens,
		audit:      deps.Audit,
		rotator: &tokenRotator{
			tokens: deps.RefreshTokens,
			tx:     deps.Transactor,
			issuer: deps.Tokens,
			audit:  deps.Audit,
			log:    log,
			now:    o.now,
		},
		log:  log,
		now:  o.now,
		rand: o.rand,
	}
}

// GenerateLinkCode issues a pairing code bound to the caller's organization
// and to the machine that will redeem it.
func (s *ConnectorService) GenerateLinkCode(ctx context.Context, principal domain.Principal, in ports.LinkCodeInput) (*ports.LinkCodeResult, error) {
	if !principal.IsUser() {
		return nil, domain.ErrForbidden
	}
	fingerprint := strings.TrimSpace(in.MachineFingerprint)
	if fingerprint == "" {
		return nil, fmt.Errorf("%w: machineFingerprint is required", domain.ErrValidation)
	}

	now := s.now()
	lc := &domain.LinkCode{
		ID:                 ids.New(),
		OrganizationID:     principal.OrganizationID,
		CreatedBy:          principal.SubjectID,
		MachineFingerprint: fingerprint,
		ConnectorName:      strings.TrimSpace(in.ConnectorName),
		ConnectorVersion:   strings.TrimSpace(in.ConnectorVersion),
		ExpiresAt:          now.Add(domain.LinkCodeTTL),
		CreatedAt:          now,
	}
	// Codes are unique while stored; a collision draws a fresh one.
	for attempt := 1; ; attempt++ {
		code, err := domain.GenerateLinkCode(s.rand)
		if err != nil {
			return nil, err
		}
		lc.Code = code
		err = s.linkCodes.Create(ctx, lc)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrLinkCodeTaken) || attempt == linkCodeAttempts {
			return nil, fmt.Errorf("generate link code: %w", err)
		}
		s.log.Debug().Int("attempt", attempt).Msg("link code collision, drawing again")
	}

	metrics.LinkCodesIssuedTotal.Inc()
	s.log.Info().
		Str("organization_id", lc.OrganizationID).
		Str("user_id", lc.CreatedBy).
		Time("expires_at", lc.ExpiresAt).
		Msg("link code issued")

	return &ports.LinkCodeResult{Code: lc.Code, ExpiresAt: lc.ExpiresAt}, nil
}

// Register redeems a link code and creates the connector. A wrong code, a
// fingerprint mismatch, an expired code and a used code all fail the same
// way.
func (s *ConnectorService) Register(ctx context.Context, in ports.RegisterConnectorInput) (*ports.ConnectorCredentials, error) {
	typ := domain.ConnectorAspelSAE
	if in.Type != "" {
		var ok bool
		if typ, ok = domain.ParseConnectorType(in.Type); !ok {
			return nil, fmt.Errorf("%w: unknown connector tipo %q", domain.ErrValidation, in.Type)
		}
	}
	code := strings.ToUpper(strings.TrimSpace(in.LinkCode))
	fingerprint := strings.TrimSpace(in.MachineFingerprint)
	if code == "" || fingerprint == "" {
		return nil, domain.ErrLinkCodeInvalid
	}

	now := s.now()
	var (
		connector *domain.Connector
		tokens    *ports.TokenPair
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		lc, err := s.linkCodes.Redeem(ctx, code, fingerprint, now)
		if err != nil {
			return err
		}

		connector = &domain.Connector{
			ID:                 ids.New(),
			OrganizationID:     lc.OrganizationID,
			Name:               firstNonEmpty(in.ConnectorName, lc.ConnectorName),
			Type:               typ,
			Version:            firstNonEmpty(in.ConnectorVersion, lc.ConnectorVersion),
			Status:             domain.ConnectorOnline,
			MachineFingerprint: fingerprint,
			Empresas:           in.Empresas,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.connectors.Create(ctx, connector); err != nil {
			return err
		}
		tokens, err = s.issuePair(ctx, connector, in.IP)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrLinkCodeInvalid) {
			metrics.ConnectorRegistrationsTotal.WithLabelValues("rejected").Inc()
			s.log.Warn().Str("ip", in.IP).Msg("connector registration rejected")
			return nil, domain.ErrLinkCodeInvalid
		}
		return nil, fmt.Errorf("register connector: %w", err)
	}

	metrics.ConnectorRegistrationsTotal.WithLabelValues("registered").Inc()
	s.log.Info().
		Str("organization_id", connector.OrganizationID).
		Str("connector_id", connector.ID).
		Str("tipo", string(connector.Type)).
		Str("version", connector.Version).
		Msg("connector registered")
	s.audit.Record(domain.AuditEvent{
		OrganizationID: connector.OrganizationID,
		Action:         domain.AuditConnectorRegistered,
		ActorKind:      domain.OwnerConnector,
		ActorID:        connector.ID,
		IP:             in.IP,
		Details:        map[string]any{"name": connector.Name, "tipo": string(connector.Type)},
		OccurredAt:     now,
	})

	return &ports.ConnectorCredentials{ConnectorID: connector.ID, Tokens: *tokens, Config: DefaultSyncConfig}, nil
}

// Heartbeat records connector liveness and returns pending commands.
func (s *ConnectorService) Heartbeat(ctx context.Context, principal domain.Principal, hb domain.Heartbeat) (*ports.HeartbeatResult, error) {
	if !principal.IsConnector() || !principal.HasPermission(domain.PermHeartbeatWrite) {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	hb.ReceivedAt = now
	status := domain.StatusFromHeartbeat(hb.Status)
	if err := s.connectors.RecordHeartbeat(ctx, principal.OrganizationID, principal.SubjectID, status, hb); err != nil {
		return nil, fmt.Errorf("heartbeat: %w", err)
	}

	s.log.Debug().
		Str("connector_id", principal.SubjectID).
		Str("status", string(status)).
		Int64("uptime", hb.Uptime).
		Msg("heartbeat received")

	return &ports.HeartbeatResult{Ack: true, ServerTime: now, Commands: []ports.ConnectorCommand{}}, nil
}

// Refresh rotates a connector refresh token.
func (s *ConnectorService) Refresh(ctx context.Context, refreshToken, ip string) (*ports.ConnectorCredentials, error) {
	rot, err := s.rotator.rotate(ctx, refreshToken, domain.OwnerConnector, ip, s.loadConnector)
	if err != nil {
		return nil, err
	}
	return &ports.ConnectorCredentials{
		ConnectorID: rot.principal.SubjectID,
		Tokens:      rot.pair,
		Config:      DefaultSyncConfig,
	}, nil
}

// List returns the connectors of the caller's organization.
func (s *ConnectorService) List(ctx context.Context, principal domain.Principal) ([]domain.Connector, error) {
	if !principal.Satisfies(domain.PolicyConnectorsRead) {
		return nil, domain.ErrForbidden
	}
	list, err := s.connectors.ListByOrganization(ctx, principal.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("list connectors: %w", err)
	}
	return list, nil
}

func (s *ConnectorService) issuePair(ctx context.Context, c *domain.Connector, ip string) (*ports.TokenPair, error) {
	refresh, err := s.issuer.NewRefreshToken(domain.TokenOwner{Kind: domain.OwnerConnector, ID: c.ID}, c.OrganizationID, ip)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	access, ttl, err := s.issuer.IssueAccess(c.Principal())
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh.Token, ExpiresIn: int(ttl.Seconds())}, nil
}

func (s *ConnectorService) loadConnector(ctx context.Context, token *domain.RefreshToken) (domain.Principal, error) {
	c, err := s.connectors.FindByID(ctx, token.OrganizationID, token.Owner.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load token owner: %w", err)
	}
	return c.Principal(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

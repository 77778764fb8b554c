package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/ids"
)

const (
	minSecretLength   = 32
	refreshTokenBytes = 64

	tokenTypeUser      = "user"
	tokenTypeConnector = "connector"
)

var ErrSigningKeyTooShort = errors.New("jwt signing key must be at least 32 bytes")

// TokenConfig holds the signing key and the lifetimes of both token flavors.
type TokenConfig struct {
	Secret              string
	Issuer              string
	Audience            string
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	ConnectorAccessTTL  time.Duration
	ConnectorRefreshTTL time.Duration
}

// AccessClaims is the payload of every access token. User and connector
// tokens share the signing scheme but fill disjoint claims.
type AccessClaims struct {
	jwt.RegisteredClaims
	Type        string   `json:"type"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	OrgID       string   `json:"org_id"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
	MachineID   string   `json:"machine_id,omitempty"`
	Version     string   `json:"version,omitempty"`
}

// TokenService mints and validates access tokens and mints opaque refresh
// tokens.
type TokenService struct {
	cfg    TokenConfig
	secret []byte
	now    func() time.Time
	rand   io.Reader
}

// NewTokenService fails when the signing key is too weak to use.
func NewTokenService(cfg TokenConfig, opts ...Option) (*TokenService, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.ConnectorAccessTTL <= 0 {
		cfg.ConnectorAccessTTL = 24 * time.Hour
	}
	if cfg.ConnectorRefreshTTL <= 0 {
		cfg.ConnectorRefreshTTL = 30 * 24 * time.Hour
	}

	o := applyOptions(opts)
	return &TokenService{cfg: cfg, secret: []byte(cfg.Secret), now: o.now, rand: o.rand}, nil
}

// IssueAccess signs an access token for p and returns it with its lifetime.
func (s *TokenService) IssueAccess(p domain.Principal) (string, time.Duration, error) {
	now := s.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ids.NewUUID(),
		},
		OrgID:       p.OrganizationID,
		Name:        p.Name,
		Permissions: p.Permissions,
	}
	if s.cfg.Issuer != "" {
		claims.Issuer = s.cfg.Issuer
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}

	var ttl time.Duration
	switch p.Kind {
	case domain.PrincipalConnector:
		ttl = s.cfg.ConnectorAccessTTL
		claims.Type = tokenTypeConnector
		claims.MachineID = p.MachineID
		claims.Version = p.Version
	case domain.PrincipalUser:
		ttl = s.cfg.AccessTTL
		claims.Type = tokenTypeUser
		claims.Email = p.Email
		claims.Role = string(p.Role)
	default:
		return "", 0, fmt.Errorf("issue access token: unknown principal kind %q", p.Kind)
	}
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign access token: %w", err)
	}
	return signed, ttl, nil
}

// Validate verifies raw and rebuilds the principal it was issued for. Every
// failure is reported as domain.ErrInvalidToken.
func (s *TokenService) Validate(raw string) (domain.Principal, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.cfg.Audience))
	}

	var claims AccessClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...); err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing subject or organization", domain.ErrInvalidToken)
	}

	p := domain.Principal{
		SubjectID:      claims.Subject,
		OrganizationID: claims.OrgID,
		Name:           claims.Name,
	}
	switch claims.Type {
	case tokenTypeUser:
		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			return domain.Principal{}, fmt.Errorf("%w: unknown role", domain.ErrInvalidToken)
		}
		p.Kind = domain.PrincipalUser
		p.Email = claims.Email
		p.Role = role
		p.Permissions = claims.Permissions
	case tokenTypeConnector:
		p.Kind = domain.PrincipalConnector
		p.MachineID = claims.MachineID
		p.Version = claims.Version
		p.Permissions = domain.ConnectorPermissions()
	default:
		return domain.Principal{}, fmt.Errorf("%w: unknown token type", domain.ErrInvalidToken)
	}
	return p, nil
}

// NewRefreshToken mints an opaque refresh token for owner. The caller
// persists it.
func (s *TokenService) NewRefreshToken(owner domain.TokenOwner, organizationID, ip string) (*domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	ttl := s.cfg.RefreshTTL
	if owner.Kind == domain.OwnerConnector {
		ttl = s.cfg.ConnectorRefreshTTL
	}
	now := s.now()
	return &domain.RefreshToken{
		ID:             ids.New(),
		Token:          base64.StdEncoding.EncodeToString(buf),
		Owner:          owner,
		OrganizationID: organizationID,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		CreatedByIP:    ip,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/metrics"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/ids"
)

const minPasswordLength = 8

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Users         ports.UserRepository
	Organizations ports.OrganizationRepository
	RefreshTokens ports.RefreshTokenRepository
	Transactor    ports.Transactor
	Tokens        *TokenService
	Audit         ports.AuditRecorder
}

// AuthService implements signup, login with lockout, refresh rotation and
// logout for web users.
type AuthService struct {
	users   ports.UserRepository
	orgs    ports.OrganizationRepository
	tokens  ports.RefreshTokenRepository
	tx      ports.Transactor
	issuer  *TokenService
	audit   ports.AuditRecorder
	rotator *tokenRotator
	log     zerolog.Logger
	now     func() time.Time
	cost    int
}

func NewAuthService(deps AuthDeps, log zerolog.Logger, opts ...Option) *AuthService {
	o := applyOptions(opts)
	return &AuthService{
		users:  deps.Users,
		orgs:   deps.Organizations,
		tokens: deps.RefreshTokens,
		tx:     deps.Transactor,
		issuer: deps.Tokens,
		audit:  deps.Audit,
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
		cost: o.passwordCost,
	}
}

// Register creates an organization and its owner, then signs the owner in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	orgName := strings.TrimSpace(in.OrganizationName)
	if email == "" || name == "" || orgName == "" {
		return nil, fmt.Errorf("%w: email, nombre and organizacion are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	org := domain.NewOrganization(ids.New(), orgName, strings.TrimSpace(in.OrganizationRFC), now)
	user := &domain.User{
		ID:             ids.New(),
		OrganizationID: org.ID,
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Role:           domain.RoleOwner,
		Active:         true,
		LastLoginAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var tokens *ports.TokenPair
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orgs.Create(ctx, org); err != nil {
			return err
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		var err error
		tokens, err = s.issuePair(ctx, user, in.IP)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Str("organization_id", org.ID).
		Str("user_id", user.ID).
		Msg("organization registered")

	return &ports.AuthResult{User: user, Organization: org, Tokens: *tokens}, nil
}

// Login verifies credentials. The lockout check runs before the password
// check, so a locked account is refused even with the right password.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.recordAudit(domain.AuditEvent{Action: domain.AuditLoginFailed, IP: in.IP, Details: map[string]any{"email": email}})
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	now := s.now()
	if user.IsLocked(now) {
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		s.log.Info().Str("user_id", user.ID).Time("locked_until", *user.LockoutUntil).Msg("login refused, account locked")
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, s.failLogin(ctx, user, in.IP, now)
	}

	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, domain.ErrAccountDisabled
	}

	org, err := s.orgs.FindByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	user.RecordLoginSuccess(now)
	var (
		tokens *ports.TokenPair
		pruned int64
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.UpdateLoginState(ctx, user); err != nil {
			return err
		}
		var err error
		if tokens, err = s.issuePair(ctx, user, in.IP); err != nil {
			return err
		}
		pruned, err = s.tokens.RevokeActiveBeyond(ctx, userOwner(user.ID), domain.MaxActiveSessions, domain.Revocation{
			At:     now,
			ByIP:   in.IP,
			Reason: domain.ReasonNewLogin,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensRevokedTotal.WithLabelValues(domain.ReasonNewLogin).Add(float64(pruned))
	s.log.Info().
		Str("user_id", user.ID).
		Str("organization_id", user.OrganizationID).
		Int64("pruned_sessions", pruned).
		Msg("user logged in")

	return &ports.AuthResult{User: user, Organization: org, Tokens: *tokens}, nil
}

func (s *AuthService) failLogin(ctx context.Context, user *domain.User, ip string, now time.Time) error {
	locked := user.RecordLoginFailure(now)
	if err := s.users.UpdateLoginState(ctx, user); err != nil {
		return fmt.Errorf("login: record failure: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.recordAudit(domain.AuditEvent{
		OrganizationID: user.OrganizationID,
		Action:         domain.AuditLoginFailed,
		ActorKind:      domain.OwnerUser,
		ActorID:        user.ID,
		IP:             ip,
	})
	if locked {
		s.log.Warn().
			Str("user_id", user.ID).
			Str("ip", ip).
			Time("locked_until", *user.LockoutUntil).
			Msg("account locked after repeated login failures")
		s.recordAudit(domain.AuditEvent{
			OrganizationID: user.OrganizationID,
			Action:         domain.AuditAccountLocked,
			ActorKind:      domain.OwnerUser,
			ActorID:        user.ID,
			IP:             ip,
		})
	}
	return domain.ErrInvalidCredentials
}

// Refresh rotates a user refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip string) (*ports.TokenPair, error) {
	rot, err := s.rotator.rotate(ctx, refreshToken, domain.OwnerUser, ip, s.loadUser)
	if err != nil {
		return nil, err
	}
	return &rot.pair, nil
}

// Logout revokes refreshToken when it is an active token of the caller.
// Anything else is ignored so logout never reveals token state.
func (s *AuthService) Logout(ctx context.Context, principal domain.Principal, refreshToken, ip string) error {
	if refreshToken == "" || !principal.IsUser() {
		return nil
	}

	tok, err := s.tokens.FindByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	now := s.now()
	if tok.Owner != userOwner(principal.SubjectID) || !tok.IsActive(now) {
		return nil
	}
	revoked, err := s.tokens.Revoke(ctx, tok.Token, domain.Revocation{At: now, ByIP: ip, Reason: domain.ReasonLoggedOut})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if revoked {
		metrics.TokensRevokedTotal.WithLabelValues(domain.ReasonLoggedOut).Inc()
	}
	return nil
}

// Me returns the caller's user and organization.
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*ports.AuthResult, error) {
	if !principal.IsUser() {
		return nil, domain.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, principal.OrganizationID, principal.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	org, err := s.orgs.FindByID(ctx, principal.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &ports.AuthResult{User: user, Organization: org}, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User, ip string) (*ports.TokenPair, error) {
	refresh, err := s.issuer.NewRefreshToken(userOwner(user.ID), user.OrganizationID, ip)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	access, ttl, err := s.issuer.IssueAccess(user.Principal())
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh.Token, ExpiresIn: int(ttl.Seconds())}, nil
}

func (s *AuthService) loadUser(ctx context.Context, token *domain.RefreshToken) (domain.Principal, error) {
	user, err := s.users.FindByID(ctx, token.OrganizationID, token.Owner.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load token owner: %w", err)
	}
	if !user.Active {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return user.Principal(), nil
}

func (s *AuthService) recordAudit(event domain.AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	s.audit.Record(event)
}

func userOwner(id string) domain.TokenOwner {
	return domain.TokenOwner{Kind: domain.OwnerUser, ID: id}
}

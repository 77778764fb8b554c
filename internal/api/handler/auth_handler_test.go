package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	refreshFn  func(ctx context.Context, token, ip string) (*ports.TokenPair, error)
	logoutFn   func(ctx context.Context, p domain.Principal, token, ip string) error
	meFn       func(ctx context.Context, p domain.Principal) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Refresh(ctx context.Context, token, ip string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, token, ip)
}

func (s *stubAuthService) Logout(ctx context.Context, p domain.Principal, token, ip string) error {
	return s.logoutFn(ctx, p, token, ip)
}

func (s *stubAuthService) Me(ctx context.Context, p domain.Principal) (*ports.AuthResult, error) {
	return s.meFn(ctx, p)
}

func sampleAuthResult(withTokens bool) *ports.AuthResult {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	r := &ports.AuthResult{
		User: &domain.User{
			ID:             "usr_1",
			OrganizationID: "org_1",
			Email:          "ana@acme.mx",
			Name:           "Ana",
			Role:           domain.RoleOwner,
			Active:         true,
			CreatedAt:      now,
		},
		Organization: domain.NewOrganization("org_1", "Acme", "ACM010101AAA", now),
	}
	if withTokens {
		r.Tokens = ports.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}
	}
	return r
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "ana@acme.mx" || in.Name != "Ana" || in.OrganizationName != "Acme" || in.OrganizationRFC != "ACM010101AAA" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.IP != "198.51.100.4" {
				t.Fatalf("unexpected ip %q", in.IP)
			}
			return sampleAuthResult(true), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"ana@acme.mx","password":"correct-horse","nombre":"Ana","organizacion":{"nombre":"Acme","rfc":"ACM010101AAA"}}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/auth/me" {
		t.Fatalf("unexpected location %q", loc)
	}

	resp := decodeBody(t, rec)
	user, _ := resp["user"].(map[string]any)
	if user["email"] != "ana@acme.mx" || user["role"] != "owner" || user["organizationId"] != "org_1" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	org, _ := resp["organization"].(map[string]any)
	if org["plan"] != "free" {
		t.Fatalf("unexpected organization payload: %+v", org)
	}
	tokens, _ := resp["tokens"].(map[string]any)
	if tokens["accessToken"] != "access" || tokens["expiresIn"] != float64(900) {
		t.Fatalf("unexpected tokens payload: %+v", tokens)
	}
}

func TestAuthHandler_Register_PropagatesEmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/register",
		`{"email":"ana@acme.mx","password":"correct-horse","nombre":"Ana","organizacion":{"nombre":"Acme"}}`)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	for name, body := range map[string]string{
		"not json":       "not-json",
		"bad email":      `{"email":"nope","password":"x","nombre":"Ana","organizacion":{"nombre":"Acme"}}`,
		"missing org":    `{"email":"ana@acme.mx","password":"x","nombre":"Ana"}`,
		"missing fields": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/auth/register", body)
			err := NewAuthHandler(stub).Register(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			if in.Email != "ana@acme.mx" || in.Password != "correct-horse" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return sampleAuthResult(true), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"ana@acme.mx","password":"correct-horse"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tokens, _ := decodeBody(t, rec)["tokens"].(map[string]any)
	if tokens["refreshToken"] != "refresh" {
		t.Fatalf("unexpected tokens payload: %+v", tokens)
	}
}

func TestAuthHandler_Login_PropagatesLockout(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrAccountLocked
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"email":"ana@acme.mx","password":"correct-horse"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, token, ip string) (*ports.TokenPair, error) {
			if token != "old-refresh" {
				return nil, domain.ErrInvalidToken
			}
			return &ports.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil
		},
	}

	c, rec := newContext(http.MethodPost, "/api/auth/refresh", `{"refreshToken":"old-refresh"}`)
	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["accessToken"] != "a2" || resp["refreshToken"] != "r2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/refresh", `{"refreshToken":"stolen"}`)
	if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/refresh", `{}`)
	if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var gotToken string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, p domain.Principal, token, ip string) error {
			if p.SubjectID != "usr_owner" {
				t.Fatalf("unexpected principal %+v", p)
			}
			gotToken = token
			return nil
		},
	}

	c, rec := newContext(http.MethodPost, "/api/auth/logout", `{"refreshToken":"r1"}`)
	if err := NewAuthHandler(stub).Logout(withPrincipal(c, ownerPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || gotToken != "r1" {
		t.Fatalf("expected 204 revoking r1, got %d revoking %q", rec.Code, gotToken)
	}

	c, rec = newContext(http.MethodPost, "/api/auth/logout", "")
	if err := NewAuthHandler(stub).Logout(withPrincipal(c, ownerPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || gotToken != "" {
		t.Fatalf("expected 204 with no token, got %d revoking %q", rec.Code, gotToken)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, p domain.Principal) (*ports.AuthResult, error) {
			return sampleAuthResult(false), nil
		},
	}

	c, rec := newContext(http.MethodGet, "/api/auth/me", "")
	if err := NewAuthHandler(stub).Me(withPrincipal(c, ownerPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if _, ok := resp["tokens"]; ok {
		t.Fatalf("me must not include tokens: %+v", resp)
	}
	user, _ := resp["user"].(map[string]any)
	perms, _ := user["permissions"].([]any)
	if len(perms) == 0 {
		t.Fatalf("expected permissions in user payload: %+v", user)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, p domain.Principal) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodGet, "/api/auth/me", "")
	if err := NewAuthHandler(stub).Me(c); err == nil {
		t.Fatalf("expected an error without a principal")
	}
}

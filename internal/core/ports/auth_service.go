package ports

import (
	"context"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// RegisterInput carries the signup form: the first user becomes the owner of
// a new organization.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	OrganizationName string
	OrganizationRFC  string
	IP               string
}

type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// TokenPair is what clients keep between requests. ExpiresIn is the access
// token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type AuthResult struct {
	User         *domain.User
	Organization *domain.Organization
	Tokens       TokenPair
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*TokenPair, error)
	Logout(ctx context.Context, principal domain.Principal, refreshToken, ip string) error
	Me(ctx context.Context, principal domain.Principal) (*AuthResult, error)
}

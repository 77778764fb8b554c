package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountLocked       = errors.New("account locked")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrInvalidToken        = errors.New("invalid token")
	ErrForbidden           = errors.New("access forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrEmailTaken          = errors.New("email already registered")
	ErrLinkCodeTaken       = errors.New("link code already issued")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound is the root of every lookup miss. Cross-tenant lookups
	// report it too, so callers cannot probe other organizations.
	ErrNotFound = errors.New("not found")

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrOrganizationNotFound = fmt.Errorf("organization %w", ErrNotFound)
	ErrConnectorNotFound    = fmt.Errorf("connector %w", ErrNotFound)
	ErrClienteNotFound      = fmt.Errorf("cliente %w", ErrNotFound)
	ErrRefreshTokenNotFound = fmt.Errorf("refresh token %w", ErrNotFound)
	ErrLinkCodeInvalid      = fmt.Errorf("link code %w", ErrNotFound)
)

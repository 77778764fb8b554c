package domain

import (
	"strings"
	"time"
)

// Role determines a user's static permission set.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleCollector Role = "collector"
	RoleManager   Role = "manager"
	RoleAdmin     Role = "admin"
	RoleOwner     Role = "owner"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(s)); r {
	case RoleViewer, RoleCollector, RoleManager, RoleAdmin, RoleOwner:
		return r, true
	}
	return "", false
}

const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// User models a web user. Email is stored lower-cased.
type User struct {
	ID                  string     `json:"id"`
	OrganizationID      string     `json:"organizationId"`
	Email               string     `json:"email"`
	Name                string     `json:"nombre"`
	PasswordHash        string     `json:"-"`
	Role                Role       `json:"role"`
	Active              bool       `json:"active"`
	FailedLoginAttempts int        `json:"-"`
	LockoutUntil        *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLogin,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLocked reports whether a lockout is in effect at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockoutUntil != nil && now.Before(*u.LockoutUntil)
}

// RecordLoginFailure counts a wrong password and starts a lockout once the
// threshold is reached. The counter restarts so an expired lockout grants a
// fresh set of attempts. It returns true when this failure locked the account.
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedLoginAttempts++
	u.UpdatedAt = now
	if u.FailedLoginAttempts < MaxFailedLogins {
		return false
	}
	until := now.Add(LockoutDuration)
	u.LockoutUntil = &until
	u.FailedLoginAttempts = 0
	return true
}

// RecordLoginSuccess clears lockout state and stamps the login time.
func (u *User) RecordLoginSuccess(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockoutUntil = nil
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Permissions returns the static permission set for the user's role.
func (u *User) Permissions() []string {
	return PermissionsFor(u.Role)
}

// Principal converts the user into an authorization subject.
func (u *User) Principal() Principal {
	return Principal{
		Kind:           PrincipalUser,
		SubjectID:      u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Permissions:    u.Permissions(),
	}
}

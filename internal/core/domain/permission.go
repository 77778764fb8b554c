package domain

import "strings"

const (
	PermSyncWrite      = "sync:write"
	PermHeartbeatWrite = "heartbeat:write"
)

var rolePermissions = map[Role][]string{
	RoleOwner: {
		"users:*", "cartera:*", "clientes:*", "connectors:*", "settings:*", "billing:*",
	},
	RoleAdmin: {
		"users:create", "users:read", "users:update", "users:delete",
		"cartera:*", "clientes:*", "connectors:*", "settings:*",
	},
	RoleManager: {
		"users:read", "cartera:*", "clientes:*", "connectors:read",
	},
	RoleCollector: {
		"cartera:read", "cartera:write", "clientes:read", "clientes:contact",
	},
	RoleViewer: {
		"cartera:read", "clientes:read",
	},
}

// PermissionsFor returns a copy of the permissions granted to role.
func PermissionsFor(role Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// ConnectorPermissions is the fixed grant carried by connector tokens.
func ConnectorPermissions() []string {
	return []string{PermSyncWrite, PermHeartbeatWrite}
}

// permissionCovers reports whether granted satisfies required, either exactly
// or through a "resource:*" wildcard.
func permissionCovers(granted, required string) bool {
	if granted == required {
		return true
	}
	resource, ok := strings.CutSuffix(granted, ":*")
	if !ok {
		return false
	}
	return strings.HasPrefix(required, resource+":")
}

type PrincipalKind string

const (
	PrincipalUser      PrincipalKind = "user"
	PrincipalConnector PrincipalKind = "connector"
)

// Principal is the authenticated caller of a request, always scoped to a
// single organization.
type Principal struct {
	Kind           PrincipalKind
	SubjectID      string
	OrganizationID string
	Email          string
	Name           string
	Role           Role
	Permissions    []string
	MachineID      string
	Version        string
}

func (p Principal) IsUser() bool      { return p.Kind == PrincipalUser }
func (p Principal) IsConnector() bool { return p.Kind == PrincipalConnector }

// HasPermission checks the principal's own grants, wildcards included.
func (p Principal) HasPermission(required string) bool {
	for _, granted := range p.Permissions {
		if permissionCovers(granted, required) {
			return true
		}
	}
	return false
}

// Policy is a named, user-facing authorization rule.
type Policy struct {
	Name       string
	Permission string
}

var (
	PolicyCarteraRead      = Policy{Name: "CarteraRead", Permission: "cartera:read"}
	PolicyCarteraWrite     = Policy{Name: "CarteraWrite", Permission: "cartera:write"}
	PolicyUsersManage      = Policy{Name: "UsersManage", Permission: "users:update"}
	PolicyConnectorsRead   = Policy{Name: "ConnectorsRead", Permission: "connectors:read"}
	PolicyConnectorsManage = Policy{Name: "ConnectorsManage", Permission: "connectors:create"}
)

// Satisfies evaluates a named policy. Admins and owners bypass named
// policies; connector principals never satisfy them.
func (p Principal) Satisfies(policy Policy) bool {
	if p.Kind != PrincipalUser {
		return false
	}
	if p.Role == RoleAdmin || p.Role == RoleOwner {
		return true
	}
	return p.HasPermission(policy.Permission)
}

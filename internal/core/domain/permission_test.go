package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func userPrincipal(role Role) Principal {
	u := User{ID: "u1", OrganizationID: "org1", Role: role}
	return u.Principal()
}

func TestPrincipal_HasPermission_Wildcards(t *testing.T) {
	manager := userPrincipal(RoleManager)
	assert.True(t, manager.HasPermission("cartera:read"))
	assert.True(t, manager.HasPermission("cartera:export"))
	assert.True(t, manager.HasPermission("connectors:read"))
	assert.False(t, manager.HasPermission("connectors:create"))
	assert.False(t, manager.HasPermission("users:update"))

	// "cartera:*" must not leak into a resource that merely shares a prefix.
	assert.False(t, manager.HasPermission("carteras:read"))
}

func TestPrincipal_Satisfies(t *testing.T) {
	cases := []struct {
		role   Role
		policy Policy
		want   bool
	}{
		{RoleViewer, PolicyCarteraRead, true},
		{RoleViewer, PolicyCarteraWrite, false},
		{RoleCollector, PolicyCarteraWrite, true},
		{RoleCollector, PolicyUsersManage, false},
		{RoleManager, PolicyConnectorsRead, true},
		{RoleManager, PolicyUsersManage, false},
		{RoleAdmin, PolicyUsersManage, true},
		{RoleAdmin, Policy{Name: "Billing", Permission: "billing:read"}, true},
		{RoleOwner, PolicyConnectorsManage, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, userPrincipal(tc.role).Satisfies(tc.policy), "%s/%s", tc.role, tc.policy.Name)
	}
}

func TestPrincipal_ConnectorNeverSatisfiesUserPolicies(t *testing.T) {
	c := Connector{ID: "c1", OrganizationID: "org1"}
	p := c.Principal()

	assert.True(t, p.HasPermission(PermSyncWrite))
	assert.True(t, p.HasPermission(PermHeartbeatWrite))
	for _, policy := range []Policy{PolicyCarteraRead, PolicyCarteraWrite, PolicyUsersManage, PolicyConnectorsRead} {
		assert.False(t, p.Satisfies(policy), policy.Name)
	}

	// Even a forged admin role on a connector principal is ignored.
	p.Role = RoleAdmin
	assert.False(t, p.Satisfies(PolicyCarteraRead))
}

func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleViewer)
	perms[0] = "billing:*"
	assert.Equal(t, "cartera:read", PermissionsFor(RoleViewer)[0])
}

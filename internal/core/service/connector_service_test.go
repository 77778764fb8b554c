package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

func TestGenerateLinkCode(t *testing.T) {
	f := newFixture(t, WithRandom(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5})))
	owner := f.registerOwner(t, "ana@example.com")

	res, err := f.connectors.GenerateLinkCode(context.Background(), owner.User.Principal(), ports.LinkCodeInput{MachineFingerprint: "fp-1"})
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF", res.Code)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), res.ExpiresAt)

	stored := f.store.linkCodes[res.Code]
	assert.Equal(t, owner.Organization.ID, stored.OrganizationID)
	assert.Equal(t, owner.User.ID, stored.CreatedBy)
	assert.False(t, stored.Used)
}

func TestGenerateLinkCode_DrawsAgainOnCollision(t *testing.T) {
	draws := []byte{0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	f := newFixture(t, WithRandom(bytes.NewReader(draws)))
	owner := f.registerOwner(t, "ana@example.com")
	ctx := context.Background()
	in := ports.LinkCodeInput{MachineFingerprint: "fp-1"}

	first, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), in)
	require.NoError(t, err)
	second, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), in)
	require.NoError(t, err)

	assert.Equal(t, "ABCDEF", first.Code)
	assert.Equal(t, "GHJKLM", second.Code)
	assert.Len(t, f.store.linkCodes, 2)
}

func TestGenerateLinkCode_GivesUpAfterRepeatedCollisions(t *testing.T) {
	draws := bytes.Repeat([]byte{0, 1, 2, 3, 4, 5}, 1+linkCodeAttempts)
	f := newFixture(t, WithRandom(bytes.NewReader(draws)))
	owner := f.registerOwner(t, "ana@example.com")
	ctx := context.Background()
	in := ports.LinkCodeInput{MachineFingerprint: "fp-1"}

	_, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), in)
	require.NoError(t, err)

	_, err = f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), in)
	assert.ErrorIs(t, err, domain.ErrLinkCodeTaken)
	assert.Len(t, f.store.linkCodes, 1)
}

func TestGenerateLinkCode_Rejections(t *testing.T) {
	f := newFixture(t)
	owner := f.registerOwner(t, "ana@example.com")
	_, connector := f.pairConnector(t, owner, "fp-1")
	ctx := context.Background()

	_, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), ports.LinkCodeInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.connectors.GenerateLinkCode(ctx, connector, ports.LinkCodeInput{MachineFingerprint: "fp-2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterConnector(t *testing.T) {
	f := newFixture(t)
	owner := f.registerOwner(t, "ana@example.com")

	creds, p := f.pairConnector(t, owner, "fp-1")

	assert.Equal(t, DefaultSyncConfig, creds.Config)
	assert.Equal(t, 86400, creds.Tokens.ExpiresIn)
	assert.True(t, p.IsConnector())
	assert.Equal(t, creds.ConnectorID, p.SubjectID)
	assert.Equal(t, owner.Organization.ID, p.OrganizationID)
	assert.Equal(t, "fp-1", p.MachineID)
	assert.ElementsMatch(t, []string{domain.PermSyncWrite, domain.PermHeartbeatWrite}, p.Permissions)
	assert.False(t, p.Satisfies(domain.PolicyCarteraRead))

	c := f.store.connectors[creds.ConnectorID]
	assert.Equal(t, "SAE Oficina", c.Name)
	assert.Equal(t, "1.4.0", c.Version)
	assert.Equal(t, domain.ConnectorAspelSAE, c.Type)
	assert.Equal(t, domain.ConnectorOnline, c.Status)
	assert.Contains(t, f.audit.actions(), domain.AuditConnectorRegistered)

	tok := f.store.tokens[creds.Tokens.RefreshToken]
	assert.Equal(t, domain.OwnerConnector, tok.Owner.Kind)
	assert.Equal(t, f.clock.Now().Add(30*24*time.Hour), tok.ExpiresAt)
}

func TestRegisterConnector_LinkCodeFailures(t *testing.T) {
	f := newFixture(t)
	owner := f.registerOwner(t, "ana@example.com")
	ctx := context.Background()

	issue := func() string {
		res, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), ports.LinkCodeInput{MachineFingerprint: "fp-1"})
		require.NoError(t, err)
		return res.Code
	}

	t.Run("wrong fingerprint", func(t *testing.T) {
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: issue(), MachineFingerprint: "fp-other"})
		assert.ErrorIs(t, err, domain.ErrLinkCodeInvalid)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: "ZZZZZZ", MachineFingerprint: "fp-1"})
		assert.ErrorIs(t, err, domain.ErrLinkCodeInvalid)
	})

	t.Run("single use", func(t *testing.T) {
		code := issue()
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: code, MachineFingerprint: "fp-1"})
		require.NoError(t, err)
		_, err = f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: code, MachineFingerprint: "fp-1"})
		assert.ErrorIs(t, err, domain.ErrLinkCodeInvalid)
	})

	t.Run("lower-case code accepted", func(t *testing.T) {
		code := issue()
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: " " + string(bytes.ToLower([]byte(code))), MachineFingerprint: "fp-1"})
		assert.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		code := issue()
		f.clock.Advance(domain.LinkCodeTTL)
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: code, MachineFingerprint: "fp-1"})
		assert.ErrorIs(t, err, domain.ErrLinkCodeInvalid)
	})

	t.Run("unknown tipo", func(t *testing.T) {
		_, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{LinkCode: issue(), MachineFingerprint: "fp-1", Type: "sap"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestHeartbeat(t *testing.T) {
	f := newFixture(t)
	owner := f.registerOwner(t, "ana@example.com")
	creds, p := f.pairConnector(t, owner, "fp-1")
	ctx := context.Background()

	f.clock.Advance(5 * time.Minute)
	res, err := f.connectors.Heartbeat(ctx, p, domain.Heartbeat{Status: "error", Uptime: 300})
	require.NoError(t, err)
	assert.True(t, res.Ack)
	assert.Equal(t, f.clock.Now(), res.ServerTime)
	assert.Empty(t, res.Commands)

	c := f.store.connectors[creds.ConnectorID]
	assert.Equal(t, domain.ConnectorError, c.Status)
	require.NotNil(t, c.LastHeartbeat)
	assert.Equal(t, f.clock.Now(), *c.LastHeartbeat)

	_, err = f.connectors.Heartbeat(ctx, owner.User.Principal(), domain.Heartbeat{Status: "online"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestConnectorRefresh(t *testing.T) {
	f := newFixture(t)
	owner := f.registerOwner(t, "ana@example.com")
	creds, _ := f.pairConnector(t, owner, "fp-1")
	ctx := context.Background()

	next, err := f.connectors.Refresh(ctx, creds.Tokens.RefreshToken, "")
	require.NoError(t, err)
	assert.Equal(t, creds.ConnectorID, next.ConnectorID)
	assert.NotEqual(t, creds.Tokens.RefreshToken, next.Tokens.RefreshToken)

	_, err = f.connectors.Refresh(ctx, owner.Tokens.RefreshToken, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "user tokens cannot refresh connector sessions")

	_, err = f.connectors.Refresh(ctx, creds.Tokens.RefreshToken, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = f.connectors.Refresh(ctx, next.Tokens.RefreshToken, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "reuse revokes the connector family")
}

func TestListConnectors_ScopedToOrganization(t *testing.T) {
	f := newFixture(t)
	ana := f.registerOwner(t, "ana@example.com")
	bob := f.registerOwner(t, "bob@example.com")
	f.pairConnector(t, ana, "fp-a")
	f.pairConnector(t, bob, "fp-b")
	ctx := context.Background()

	list, err := f.connectors.List(ctx, ana.User.Principal())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fp-a", list[0].MachineFingerprint)

	viewer := ana.User.Principal()
	viewer.Role = domain.RoleViewer
	viewer.Permissions = domain.PermissionsFor(domain.RoleViewer)
	_, err = f.connectors.List(ctx, viewer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

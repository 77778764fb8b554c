package service

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Clock
// ---------------------------------------------------------------------------

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

// memStore backs every repository port with maps. memTransactor snapshots
// the maps before fn runs and restores them when fn fails.
type memStore struct {
	mu         sync.Mutex
	users      map[string]domain.User
	orgs       map[string]domain.Organization
	tokens     map[string]domain.RefreshToken
	connectors map[string]domain.Connector
	linkCodes  map[string]domain.LinkCode
	clientes   map[string]domain.Cliente
	facturas   map[string]domain.Factura
	contactos  map[string]domain.Contacto
	runs       []domain.SyncRun

	// failClienteInsertAt makes the n-th cliente insert (1-based) fail.
	failClienteInsertAt int
	clienteInserts      int
}

var errInjected = errors.New("injected store failure")

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]domain.User{},
		orgs:       map[string]domain.Organization{},
		tokens:     map[string]domain.RefreshToken{},
		connectors: map[string]domain.Connector{},
		linkCodes:  map[string]domain.LinkCode{},
		clientes:   map[string]domain.Cliente{},
		facturas:   map[string]domain.Factura{},
		contactos:  map[string]domain.Contacto{},
	}
}

type memSnapshot struct {
	users      map[string]domain.User
	orgs       map[string]domain.Organization
	tokens     map[string]domain.RefreshToken
	connectors map[string]domain.Connector
	linkCodes  map[string]domain.LinkCode
	clientes   map[string]domain.Cliente
	facturas   map[string]domain.Factura
	contactos  map[string]domain.Contacto
	runs       []domain.SyncRun
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		users:      maps.Clone(s.users),
		orgs:       maps.Clone(s.orgs),
		tokens:     maps.Clone(s.tokens),
		connectors: maps.Clone(s.connectors),
		linkCodes:  maps.Clone(s.linkCodes),
		clientes:   maps.Clone(s.clientes),
		facturas:   maps.Clone(s.facturas),
		contactos:  maps.Clone(s.contactos),
		runs:       append([]domain.SyncRun(nil), s.runs...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.orgs, s.tokens = snap.users, snap.orgs, snap.tokens
	s.connectors, s.linkCodes = snap.connectors, snap.linkCodes
	s.clientes, s.facturas, s.contactos = snap.clientes, snap.facturas, snap.contactos
	s.runs = snap.runs
}

type memTransactor struct{ store *memStore }

func (t memTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// --- users / organizations ---

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, orgID, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.OrganizationID != orgID {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) UpdateLoginState(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.FailedLoginAttempts = u.FailedLoginAttempts
	stored.LockoutUntil = u.LockoutUntil
	stored.LastLoginAt = u.LastLoginAt
	stored.UpdatedAt = u.UpdatedAt
	r.users[u.ID] = stored
	return nil
}

type memOrgs struct{ *memStore }

func (r memOrgs) Create(_ context.Context, o *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs[o.ID] = *o
	return nil
}

func (r memOrgs) FindByID(_ context.Context, id string) (*domain.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orgs[id]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return &o, nil
}

// --- refresh tokens ---

type memTokens struct {
	*memStore
	now func() time.Time
}

func (r memTokens) Create(_ context.Context, t *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = *t
	return nil
}

func (r memTokens) FindByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrRefreshTokenNotFound
	}
	return &t, nil
}

func revokeInPlace(t *domain.RefreshToken, rev domain.Revocation) {
	at := rev.At
	t.RevokedAt = &at
	t.RevokedByIP = rev.ByIP
	t.ReasonRevoked = rev.Reason
	t.ReplacedByToken = rev.ReplacedBy
}

func (r memTokens) Revoke(_ context.Context, token string, rev domain.Revocation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.IsRevoked() {
		return false, nil
	}
	revokeInPlace(&t, rev)
	r.tokens[token] = t
	return true, nil
}

func (r memTokens) activeOf(owner domain.TokenOwner) []domain.RefreshToken {
	now := r.now()
	var out []domain.RefreshToken
	for _, t := range r.tokens {
		if t.Owner == owner && t.IsActive(now) {
			out = append(out, t)
		}
	}
	return out
}

func (r memTokens) RevokeAllActive(_ context.Context, owner domain.TokenOwner, rev domain.Revocation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.activeOf(owner) {
		revokeInPlace(&t, rev)
		r.tokens[t.Token] = t
		n++
	}
	return n, nil
}

func (r memTokens) RevokeActiveBeyond(_ context.Context, owner domain.TokenOwner, keep int, rev domain.Revocation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := r.activeOf(owner)
	if len(active) <= keep {
		return 0, nil
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID > active[j].ID })
	var n int64
	for _, t := range active[keep:] {
		revokeInPlace(&t, rev)
		r.tokens[t.Token] = t
		n++
	}
	return n, nil
}

// racedTokens behaves like memTokens except that every Revoke loses to a
// concurrent redemption which already rotated the token to rivalToken.
type racedTokens struct {
	memTokens
	rivalToken string
}

func (r racedTokens) Revoke(_ context.Context, token string, rev domain.Revocation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return false, nil
	}
	revokeInPlace(&t, domain.Revocation{At: rev.At, Reason: domain.ReasonReplaced, ReplacedBy: r.rivalToken})
	r.tokens[token] = t
	return false, nil
}

// --- connectors / link codes ---

type memConnectors struct{ *memStore }

func (r memConnectors) Create(_ context.Context, c *domain.Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[c.ID] = *c
	return nil
}

func (r memConnectors) FindByID(_ context.Context, orgID, id string) (*domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connectors[id]
	if !ok || c.OrganizationID != orgID {
		return nil, domain.ErrConnectorNotFound
	}
	return &c, nil
}

func (r memConnectors) ListByOrganization(_ context.Context, orgID string) ([]domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Connector
	for _, c := range r.connectors {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memConnectors) RecordHeartbeat(_ context.Context, orgID, id string, status domain.ConnectorStatus, hb domain.Heartbeat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connectors[id]
	if !ok || c.OrganizationID != orgID {
		return domain.ErrConnectorNotFound
	}
	at := hb.ReceivedAt
	c.Status = status
	c.LastHeartbeat = &at
	r.connectors[id] = c
	return nil
}

func (r memConnectors) TouchSync(_ context.Context, orgID, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connectors[id]
	if !ok || c.OrganizationID != orgID {
		return domain.ErrConnectorNotFound
	}
	c.LastSyncAt = &at
	r.connectors[id] = c
	return nil
}

type memLinkCodes struct{ *memStore }

func (r memLinkCodes) Create(_ context.Context, lc *domain.LinkCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.linkCodes[lc.Code]; taken {
		return domain.ErrLinkCodeTaken
	}
	r.linkCodes[lc.Code] = *lc
	return nil
}

func (r memLinkCodes) Redeem(_ context.Context, code, fingerprint string, now time.Time) (*domain.LinkCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lc, ok := r.linkCodes[code]
	if !ok || !lc.Redeemable(fingerprint, now) {
		return nil, domain.ErrLinkCodeInvalid
	}
	lc.Used = true
	lc.UsedAt = &now
	r.linkCodes[code] = lc
	return &lc, nil
}

// --- cartera ---

type memClientes struct{ *memStore }

func (r memClientes) Insert(_ context.Context, c *domain.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clienteInserts++
	if r.failClienteInsertAt > 0 && r.clienteInserts == r.failClienteInsertAt {
		return errInjected
	}
	r.clientes[c.ID] = storedCliente(*c)
	return nil
}

func (r memClientes) Update(_ context.Context, c *domain.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clientes[c.ID] = storedCliente(*c)
	return nil
}

// storedCliente and storedFactura keep money at the scale the database does.
func storedCliente(c domain.Cliente) domain.Cliente {
	c.SaldoTotal = domain.RoundMoney(c.SaldoTotal)
	c.SaldoVencido = domain.RoundMoney(c.SaldoVencido)
	return c
}

func storedFactura(f domain.Factura) domain.Factura {
	f.Total = domain.RoundMoney(f.Total)
	f.Saldo = domain.RoundMoney(f.Saldo)
	return f
}

func (r memClientes) FindByClave(_ context.Context, orgID, clave string) (*domain.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clientes {
		if c.OrganizationID == orgID && c.Clave == clave {
			return &c, nil
		}
	}
	return nil, domain.ErrClienteNotFound
}

func (r memClientes) FindByRef(_ context.Context, orgID, empresaID, ref string) (*domain.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match := func(c domain.Cliente) bool {
		return c.OrganizationID == orgID && (empresaID == "" || c.EmpresaID == empresaID)
	}
	if c, ok := r.clientes[ref]; ok && match(c) {
		return &c, nil
	}
	for _, c := range r.clientes {
		if match(c) && c.Clave == ref {
			return &c, nil
		}
	}
	return nil, domain.ErrClienteNotFound
}

func (r memClientes) scoped(orgID, empresaID string) []domain.Cliente {
	var out []domain.Cliente
	for _, c := range r.clientes {
		if c.OrganizationID == orgID && (empresaID == "" || c.EmpresaID == empresaID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Clave < out[j].Clave })
	return out
}

func (r memClientes) List(_ context.Context, f ports.ClienteFilter) ([]domain.Cliente, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.Cliente
	search := strings.ToLower(f.Search)
	for _, c := range r.scoped(f.OrganizationID, f.EmpresaID) {
		if f.ConSaldo && !c.SaldoTotal.IsPositive() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Nombre), search) && !strings.Contains(strings.ToLower(c.Clave), search) {
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if f.Descending {
			a, b = b, a
		}
		switch f.OrderBy {
		case "nombre":
			return a.Nombre < b.Nombre
		case "clave":
			return a.Clave < b.Clave
		case "saldoTotal":
			return a.SaldoTotal.LessThan(b.SaldoTotal)
		default:
			return a.SaldoVencido.LessThan(b.SaldoVencido)
		}
	})
	total := int64(len(matched))
	start := (f.Page - 1) * f.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := min(start+f.PageSize, len(matched))
	return matched[start:end], total, nil
}

func (r memClientes) ListAll(_ context.Context, orgID, empresaID string) ([]domain.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scoped(orgID, empresaID), nil
}

type memFacturas struct{ *memStore }

func (r memFacturas) Insert(_ context.Context, f *domain.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facturas[f.ID] = storedFactura(*f)
	return nil
}

func (r memFacturas) Update(_ context.Context, f *domain.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facturas[f.ID] = storedFactura(*f)
	return nil
}

func (r memFacturas) ListByCliente(_ context.Context, orgID, clienteID string) ([]domain.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Factura
	for _, f := range r.facturas {
		if f.OrganizationID == orgID && f.ClienteID == clienteID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio < out[j].Folio })
	return out, nil
}

func (r memFacturas) ListOpen(_ context.Context, orgID, empresaID string) ([]domain.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Factura
	for _, f := range r.facturas {
		if f.OrganizationID == orgID && (empresaID == "" || f.EmpresaID == empresaID) && f.Status.IsActive() {
			out = append(out, f)
		}
	}
	return out, nil
}

type memContactos struct{ *memStore }

func (r memContactos) Insert(_ context.Context, c *domain.Contacto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contactos[c.ID] = *c
	return nil
}

func (r memContactos) Update(_ context.Context, c *domain.Contacto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contactos[c.ID] = *c
	return nil
}

func (r memContactos) ListByCliente(_ context.Context, orgID, clienteID string) ([]domain.Contacto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contacto
	for _, c := range r.contactos {
		if c.OrganizationID == orgID && c.ClienteID == clienteID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memSyncRuns struct{ *memStore }

func (r memSyncRuns) Insert(_ context.Context, run *domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

// ---------------------------------------------------------------------------
// Cache and audit stubs
// ---------------------------------------------------------------------------

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
	setErr  error
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *memCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) RemoveByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *stubAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const testSecret = "test-signing-key-0123456789abcdef"

type fixture struct {
	store      *memStore
	clock      *fakeClock
	cache      *memCache
	audit      *stubAudit
	tokens     *TokenService
	auth       *AuthService
	connectors *ConnectorService
	syncer     *SyncService
	cartera    *CarteraService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := newMemStore()
	clock := newFakeClock()
	cache := newMemCache()
	audit := &stubAudit{}
	log := zerolog.Nop()

	tokens, err := NewTokenService(TokenConfig{Secret: testSecret, Issuer: "cobranza-test"}, WithClock(clock.Now))
	require.NoError(t, err)

	opts = append([]Option{WithClock(clock.Now), WithPasswordCost(bcrypt.MinCost)}, opts...)
	tx := memTransactor{store: store}
	tokenRepo := memTokens{memStore: store, now: clock.Now}

	return &fixture{
		store:  store,
		clock:  clock,
		cache:  cache,
		audit:  audit,
		tokens: tokens,
		auth: NewAuthService(AuthDeps{
			Users:         memUsers{store},
			Organizations: memOrgs{store},
			RefreshTokens: tokenRepo,
			Transactor:    tx,
			Tokens:        tokens,
			Audit:         audit,
		}, log, opts...),
		connectors: NewConnectorService(ConnectorDeps{
			Connectors:    memConnectors{store},
			LinkCodes:     memLinkCodes{store},
			RefreshTokens: tokenRepo,
			Transactor:    tx,
			Tokens:        tokens,
			Audit:         audit,
		}, log, opts...),
		syncer: NewSyncService(SyncDeps{
			Clientes:   memClientes{store},
			Facturas:   memFacturas{store},
			Contactos:  memContactos{store},
			Connectors: memConnectors{store},
			SyncRuns:   memSyncRuns{store},
			Transactor: tx,
			Cache:      cache,
			Audit:      audit,
		}, log, opts...),
		cartera: NewCarteraService(CarteraDeps{
			Clientes:  memClientes{store},
			Facturas:  memFacturas{store},
			Contactos: memContactos{store},
			Cache:     cache,
		}, log),
	}
}

// registerOwner signs up a fresh organization and returns its owner session.
func (f *fixture) registerOwner(t *testing.T, email string) *ports.AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Email:            email,
		Password:         "correct-horse",
		Name:             "Dueño",
		OrganizationName: "Org " + email,
		IP:               "10.0.0.1",
	})
	require.NoError(t, err)
	return res
}

// pairConnector runs the link-code flow for owner and returns the connector
// principal as decoded from its access token.
func (f *fixture) pairConnector(t *testing.T, owner *ports.AuthResult, fingerprint string) (*ports.ConnectorCredentials, domain.Principal) {
	t.Helper()
	ctx := context.Background()
	lc, err := f.connectors.GenerateLinkCode(ctx, owner.User.Principal(), ports.LinkCodeInput{
		ConnectorName:      "SAE Oficina",
		ConnectorVersion:   "1.4.0",
		MachineFingerprint: fingerprint,
	})
	require.NoError(t, err)

	creds, err := f.connectors.Register(ctx, ports.RegisterConnectorInput{
		LinkCode:           lc.Code,
		MachineFingerprint: fingerprint,
		Type:               "aspel_sae",
		Empresas:           []domain.Empresa{{ID: "EMP01", Name: "Empresa 1"}},
		IP:                 "10.0.0.2",
	})
	require.NoError(t, err)

	p, err := f.tokens.Validate(creds.Tokens.AccessToken)
	require.NoError(t, err)
	return creds, p
}

func (s *memStore) activeTokens(owner domain.TokenOwner, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.Owner == owner && t.IsActive(now) {
			n++
		}
	}
	return n
}

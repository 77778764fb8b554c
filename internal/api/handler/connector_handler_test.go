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

type stubConnectorService struct {
	linkCodeFn  func(ctx context.Context, p domain.Principal, in ports.LinkCodeInput) (*ports.LinkCodeResult, error)
	registerFn  func(ctx context.Context, in ports.RegisterConnectorInput) (*ports.ConnectorCredentials, error)
	heartbeatFn func(ctx context.Context, p domain.Principal, hb domain.Heartbeat) (*ports.HeartbeatResult, error)
	refreshFn   func(ctx context.Context, token, ip string) (*ports.ConnectorCredentials, error)
	listFn      func(ctx context.Context, p domain.Principal) ([]domain.Connector, error)
}

func (s *stubConnectorService) GenerateLinkCode(ctx context.Context, p domain.Principal, in ports.LinkCodeInput) (*ports.LinkCodeResult, error) {
	return s.linkCodeFn(ctx, p, in)
}

func (s *stubConnectorService) Register(ctx context.Context, in ports.RegisterConnectorInput) (*ports.ConnectorCredentials, error) {
	return s.registerFn(ctx, in)
}

func (s *stubConnectorService) Heartbeat(ctx context.Context, p domain.Principal, hb domain.Heartbeat) (*ports.HeartbeatResult, error) {
	return s.heartbeatFn(ctx, p, hb)
}

func (s *stubConnectorService) Refresh(ctx context.Context, token, ip string) (*ports.ConnectorCredentials, error) {
	return s.refreshFn(ctx, token, ip)
}

func (s *stubConnectorService) List(ctx context.Context, p domain.Principal) ([]domain.Connector, error) {
	return s.listFn(ctx, p)
}

func sampleCredentials() *ports.ConnectorCredentials {
	return &ports.ConnectorCredentials{
		ConnectorID: "con_1",
		Tokens:      ports.TokenPair{AccessToken: "ca", RefreshToken: "cr", ExpiresIn: 86400},
		Config:      ports.SyncConfig{SyncIntervalMinutes: 15, HeartbeatIntervalMinutes: 5},
	}
}

func TestConnectorHandler_LinkCode(t *testing.T) {
	expires := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	stub := &stubConnectorService{
		linkCodeFn: func(ctx context.Context, p domain.Principal, in ports.LinkCodeInput) (*ports.LinkCodeResult, error) {
			if p.OrganizationID != "org_1" || in.MachineFingerprint != "fp-1" || in.ConnectorName != "SAE Norte" {
				t.Fatalf("unexpected call: %+v %+v", p, in)
			}
			return &ports.LinkCodeResult{Code: "K7MX2Q", ExpiresAt: expires}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/connectors/link-code",
		`{"connectorName":"SAE Norte","connectorVersion":"1.2.0","machineFingerprint":"fp-1"}`)

	if err := NewConnectorHandler(stub).LinkCode(withPrincipal(c, ownerPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["code"] != "K7MX2Q" || resp["expiresAt"] != "2025-03-10T09:15:00Z" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestConnectorHandler_LinkCode_RequiresFingerprint(t *testing.T) {
	stub := &stubConnectorService{}
	c, _ := newContext(http.MethodPost, "/api/connectors/link-code", `{"connectorName":"SAE"}`)

	err := NewConnectorHandler(stub).LinkCode(withPrincipal(c, ownerPrincipal()))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestConnectorHandler_Register(t *testing.T) {
	stub := &stubConnectorService{
		registerFn: func(ctx context.Context, in ports.RegisterConnectorInput) (*ports.ConnectorCredentials, error) {
			if in.LinkCode != "K7MX2Q" || in.MachineFingerprint != "fp-1" || in.Type != "contpaqi" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.Empresas) != 1 || in.Empresas[0].ID != "EMP01" || in.Empresas[0].Name != "Norte" {
				t.Fatalf("unexpected empresas: %+v", in.Empresas)
			}
			return sampleCredentials(), nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/connectors/register",
		`{"linkCode":"K7MX2Q","machineFingerprint":"fp-1","connectorName":"SAE","connectorVersion":"1.2.0","tipo":"contpaqi","empresas":[{"id":"EMP01","nombre":"Norte"}]}`)

	if err := NewConnectorHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/connectors/con_1" {
		t.Fatalf("unexpected location %q", loc)
	}
	resp := decodeBody(t, rec)
	config, _ := resp["config"].(map[string]any)
	if resp["connectorId"] != "con_1" || config["syncIntervalMinutes"] != float64(15) || config["heartbeatIntervalMinutes"] != float64(5) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestConnectorHandler_Register_PropagatesInvalidCode(t *testing.T) {
	stub := &stubConnectorService{
		registerFn: func(ctx context.Context, in ports.RegisterConnectorInput) (*ports.ConnectorCredentials, error) {
			return nil, domain.ErrLinkCodeInvalid
		},
	}
	c, _ := newContext(http.MethodPost, "/api/connectors/register", `{"linkCode":"AAAAAA","machineFingerprint":"fp-2"}`)

	if err := NewConnectorHandler(stub).Register(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestConnectorHandler_Register_RejectsIncompleteEmpresa(t *testing.T) {
	stub := &stubConnectorService{}
	c, _ := newContext(http.MethodPost, "/api/connectors/register",
		`{"linkCode":"K7MX2Q","machineFingerprint":"fp-1","empresas":[{"nombre":"Norte"}]}`)

	if err := NewConnectorHandler(stub).Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestConnectorHandler_Heartbeat(t *testing.T) {
	serverTime := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	stub := &stubConnectorService{
		heartbeatFn: func(ctx context.Context, p domain.Principal, hb domain.Heartbeat) (*ports.HeartbeatResult, error) {
			if p.SubjectID != "con_1" || hb.Status != "degraded" || hb.Uptime != 3600 || len(hb.EmpresasOnline) != 2 {
				t.Fatalf("unexpected call: %+v %+v", p, hb)
			}
			return &ports.HeartbeatResult{Ack: true, ServerTime: serverTime, Commands: []ports.ConnectorCommand{}}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/connectors/heartbeat",
		`{"status":"degraded","uptime":3600,"memoryUsageMb":128.5,"empresasOnline":["EMP01","EMP02"]}`)

	if err := NewConnectorHandler(stub).Heartbeat(withPrincipal(c, connectorPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	commands, ok := resp["commands"].([]any)
	if resp["ack"] != true || !ok || len(commands) != 0 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestConnectorHandler_Refresh(t *testing.T) {
	stub := &stubConnectorService{
		refreshFn: func(ctx context.Context, token, ip string) (*ports.ConnectorCredentials, error) {
			if token != "cr-old" {
				return nil, domain.ErrInvalidToken
			}
			return sampleCredentials(), nil
		},
	}

	c, rec := newContext(http.MethodPost, "/api/connectors/refresh", `{"refreshToken":"cr-old"}`)
	if err := NewConnectorHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["refreshToken"] != "cr" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newContext(http.MethodPost, "/api/connectors/refresh", `{"refreshToken":"cr-reused"}`)
	if err := NewConnectorHandler(stub).Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestConnectorHandler_List(t *testing.T) {
	seen := time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)
	stub := &stubConnectorService{
		listFn: func(ctx context.Context, p domain.Principal) ([]domain.Connector, error) {
			return []domain.Connector{{
				ID:            "con_1",
				Name:          "SAE Norte",
				Type:          domain.ConnectorAspelSAE,
				Status:        domain.ConnectorOnline,
				Version:       "1.2.0",
				Empresas:      []domain.Empresa{{ID: "EMP01", Name: "Norte"}},
				LastHeartbeat: &seen,
			}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/connectors", "")

	if err := NewConnectorHandler(stub).List(withPrincipal(c, ownerPrincipal())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); !containsAll(body, `"tipo":"aspel_sae"`, `"status":"online"`, `"empresas":["EMP01"]`) {
		t.Fatalf("unexpected payload: %s", body)
	}
}

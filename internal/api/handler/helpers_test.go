package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/middleware"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.RemoteAddr = "198.51.100.4:4242"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, p domain.Principal) echo.Context {
	middleware.SetPrincipal(c, p)
	return c
}

func ownerPrincipal() domain.Principal {
	return domain.Principal{
		Kind:           domain.PrincipalUser,
		SubjectID:      "usr_owner",
		OrganizationID: "org_1",
		Email:          "owner@acme.mx",
		Role:           domain.RoleOwner,
		Permissions:    domain.PermissionsFor(domain.RoleOwner),
	}
}

func connectorPrincipal() domain.Principal {
	return domain.Principal{
		Kind:           domain.PrincipalConnector,
		SubjectID:      "con_1",
		OrganizationID: "org_1",
		Permissions:    domain.ConnectorPermissions(),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/middleware"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// ctxPrincipal returns the caller stored by the Auth middleware. A missing
// principal means the route was mounted without Auth; reject with 401.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.OrganizationID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

// bindJSON decodes the request body into req and runs struct validation.
// Both failures surface as validation errors.
func bindJSON(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

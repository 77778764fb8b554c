package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// RequirePolicy admits user principals that satisfy policy.
func RequirePolicy(policy domain.Policy) echo.MiddlewareFunc {
	return guard(func(p domain.Principal) bool {
		return p.Satisfies(policy)
	})
}

// RequireUser admits any authenticated user and rejects connectors.
func RequireUser() echo.MiddlewareFunc {
	return guard(domain.Principal.IsUser)
}

// RequireConnector admits connector principals holding perm.
func RequireConnector(perm string) echo.MiddlewareFunc {
	return guard(func(p domain.Principal) bool {
		return p.IsConnector() && p.HasPermission(perm)
	})
}

func guard(allow func(domain.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !allow(p) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

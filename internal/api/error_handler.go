package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

const mimeProblemJSON = "application/problem+json"

// problem is an RFC 7807 error document.
type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders them as application/problem+json.
// Unexpected errors are logged; their detail reaches the client only when
// production is false.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		p := resolveError(err, production)
		p.Instance = c.Request().URL.Path

		ev := log.Warn()
		if p.Status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Int("status", p.Status).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(p.Status)
			return
		}
		// c.JSON keeps a content type that is already set.
		c.Response().Header().Set(echo.HeaderContentType, mimeProblemJSON)
		_ = c.JSON(p.Status, p)
	}
}

func resolveError(err error, production bool) problem {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return newProblem(he.Code, fmt.Sprintf("%v", he.Message))
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return newProblem(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccountLocked):
		return newProblem(http.StatusUnauthorized, "account locked")
	case errors.Is(err, domain.ErrAccountDisabled):
		return newProblem(http.StatusUnauthorized, "account disabled")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return newProblem(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrInvalidToken):
		return newProblem(http.StatusUnauthorized, "invalid token")
	case errors.Is(err, domain.ErrForbidden):
		return newProblem(http.StatusForbidden, "access forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return newProblem(http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrEmailTaken):
		return newProblem(http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return newProblem(http.StatusServiceUnavailable, "a backing service is unavailable, retry later")
	}

	if production {
		return newProblem(http.StatusInternalServerError, "an unexpected error occurred")
	}
	return newProblem(http.StatusInternalServerError, err.Error())
}

func newProblem(status int, detail string) problem {
	return problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type organizationRequest struct {
	Nombre string `json:"nombre" validate:"required"`
	RFC    string `json:"rfc"`
}

type registerRequest struct {
	Email        string              `json:"email"        validate:"required,email"`
	Password     string              `json:"password"     validate:"required"`
	Nombre       string              `json:"nombre"       validate:"required"`
	Organizacion organizationRequest `json:"organizacion" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Nombre         string     `json:"nombre"`
	Role           string     `json:"role"`
	OrganizationID string     `json:"organizationId"`
	Permissions    []string   `json:"permissions"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

type organizationResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Plan   string `json:"plan"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type authResponse struct {
	User         userResponse         `json:"user"`
	Organization organizationResponse `json:"organization"`
	Tokens       *tokenPairResponse   `json:"tokens,omitempty"`
}

// Register creates an organization and its owner account.
//
// @Summary      Register an organization and its owner
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Owner and organization details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  problemResponse
// @Failure      409   {object}  problemResponse
// @Failure      429   {object}  problemResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		Name:             req.Nombre,
		OrganizationName: req.Organizacion.Nombre,
		OrganizationRFC:  req.Organizacion.RFC,
		IP:               c.RealIP(),
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/auth/me")
	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login authenticates a user by email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  problemResponse
// @Failure      401   {object}  problemResponse
// @Failure      429   {object}  problemResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.RealIP(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Rotate a user refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  tokenPairResponse
// @Failure      400   {object}  problemResponse
// @Failure      401   {object}  problemResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTokenPairResponse(*pair))
}

// Logout revokes the given refresh token of the caller.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  logoutRequest  false  "Refresh token to revoke"
// @Success      204
// @Failure      401   {object}  problemResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	// An empty body is accepted and revokes nothing.
	var req logoutRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), principal, req.RefreshToken, c.RealIP()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user and organization.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  problemResponse
// @Failure      403  {object}  problemResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	result, err := h.authService.Me(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	resp := authResponse{
		User: toUserResponse(r.User),
	}
	if r.Organization != nil {
		resp.Organization = organizationResponse{
			ID:     r.Organization.ID,
			Nombre: r.Organization.Name,
			Plan:   string(r.Organization.Plan),
		}
	}
	if r.Tokens.AccessToken != "" {
		pair := toTokenPairResponse(r.Tokens)
		resp.Tokens = &pair
	}
	return resp
}

func toUserResponse(u *domain.User) userResponse {
	if u == nil {
		return userResponse{}
	}
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Nombre:         u.Name,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID,
		Permissions:    u.Permissions(),
		CreatedAt:      u.CreatedAt.UTC(),
		LastLogin:      u.LastLoginAt,
	}
}

func toTokenPairResponse(p ports.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
	}
}

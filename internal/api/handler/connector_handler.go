package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// ConnectorHandler serves connector pairing, liveness and credential
// rotation.
type ConnectorHandler struct {
	service ports.ConnectorService
}

func NewConnectorHandler(service ports.ConnectorService) *ConnectorHandler {
	return &ConnectorHandler{service: service}
}

// LinkCode issues a single-use pairing code for a connector install.
//
// @Summary      Generate a connector link code
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateLinkCodeRequest  true  "Connector identity"
// @Success      200   {object}  linkCodeResponse
// @Failure      400   {object}  problemResponse
// @Failure      401   {object}  problemResponse
// @Failure      403   {object}  problemResponse
// @Router       /api/connectors/link-code [post]
func (h *ConnectorHandler) LinkCode(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req generateLinkCodeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.service.GenerateLinkCode(c.Request().Context(), principal, ports.LinkCodeInput{
		ConnectorName:      req.ConnectorName,
		ConnectorVersion:   req.ConnectorVersion,
		MachineFingerprint: req.MachineFingerprint,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, linkCodeResponse{Code: result.Code, ExpiresAt: result.ExpiresAt.UTC()})
}

// Register redeems a link code and returns the connector credentials.
//
// @Summary      Register a connector
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Param        body  body      registerConnectorRequest  true  "Link code and machine identity"
// @Success      201   {object}  connectorCredentialsResponse
// @Failure      400   {object}  problemResponse
// @Failure      404   {object}  problemResponse
// @Failure      429   {object}  problemResponse
// @Router       /api/connectors/register [post]
func (h *ConnectorHandler) Register(c echo.Context) error {
	var req registerConnectorRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	empresas := make([]domain.Empresa, 0, len(req.Empresas))
	for _, e := range req.Empresas {
		empresas = append(empresas, domain.Empresa{ID: e.ID, Name: e.Nombre, BaseDatos: e.BaseDatos})
	}

	creds, err := h.service.Register(c.Request().Context(), ports.RegisterConnectorInput{
		LinkCode:           req.LinkCode,
		MachineFingerprint: req.MachineFingerprint,
		ConnectorName:      req.ConnectorName,
		ConnectorVersion:   req.ConnectorVersion,
		Type:               req.Tipo,
		Empresas:           empresas,
		IP:                 c.RealIP(),
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/connectors/"+creds.ConnectorID)
	return c.JSON(http.StatusCreated, toCredentialsResponse(creds))
}

// Heartbeat records connector liveness.
//
// @Summary      Connector heartbeat
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      heartbeatRequest  true  "Connector health report"
// @Success      200   {object}  heartbeatResponse
// @Failure      401   {object}  problemResponse
// @Failure      403   {object}  problemResponse
// @Failure      404   {object}  problemResponse
// @Router       /api/connectors/heartbeat [post]
func (h *ConnectorHandler) Heartbeat(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req heartbeatRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.service.Heartbeat(c.Request().Context(), principal, domain.Heartbeat{
		Status:         req.Status,
		Uptime:         req.Uptime,
		MemoryUsageMB:  req.MemoryUsageMB,
		LastSyncStatus: req.LastSyncStatus,
		EmpresasOnline: req.EmpresasOnline,
	})
	if err != nil {
		return err
	}

	commands := make([]connectorCommandResponse, 0, len(result.Commands))
	for _, cmd := range result.Commands {
		commands = append(commands, connectorCommandResponse{Type: cmd.Type, Payload: cmd.Payload})
	}
	return c.JSON(http.StatusOK, heartbeatResponse{
		Ack:        result.Ack,
		ServerTime: result.ServerTime.UTC(),
		Commands:   commands,
	})
}

// Refresh rotates a connector refresh token.
//
// @Summary      Rotate a connector refresh token
// @Tags         connectors
// @Accept       json
// @Produce      json
// @Param        body  body      connectorRefreshRequest  true  "Refresh token"
// @Success      200   {object}  connectorCredentialsResponse
// @Failure      400   {object}  problemResponse
// @Failure      401   {object}  problemResponse
// @Router       /api/connectors/refresh [post]
func (h *ConnectorHandler) Refresh(c echo.Context) error {
	var req connectorRefreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	creds, err := h.service.Refresh(c.Request().Context(), req.RefreshToken, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCredentialsResponse(creds))
}

// List returns the connectors of the caller's organization.
//
// @Summary      List connectors
// @Tags         connectors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   connectorSummaryResponse
// @Failure      401  {object}  problemResponse
// @Failure      403  {object}  problemResponse
// @Router       /api/connectors [get]
func (h *ConnectorHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), principal)
	if err != nil {
		return err
	}

	resp := make([]connectorSummaryResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toConnectorSummary(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func toCredentialsResponse(creds *ports.ConnectorCredentials) connectorCredentialsResponse {
	return connectorCredentialsResponse{
		ConnectorID:  creds.ConnectorID,
		AccessToken:  creds.Tokens.AccessToken,
		RefreshToken: creds.Tokens.RefreshToken,
		ExpiresIn:    creds.Tokens.ExpiresIn,
		Config: syncConfigResponse{
			SyncIntervalMinutes:      creds.Config.SyncIntervalMinutes,
			HeartbeatIntervalMinutes: creds.Config.HeartbeatIntervalMinutes,
		},
	}
}

func toConnectorSummary(c *domain.Connector) connectorSummaryResponse {
	empresas := make([]string, 0, len(c.Empresas))
	for _, e := range c.Empresas {
		empresas = append(empresas, e.ID)
	}
	return connectorSummaryResponse{
		ID:            c.ID,
		Nombre:        c.Name,
		Tipo:          string(c.Type),
		Status:        string(c.Status),
		Version:       c.Version,
		Empresas:      empresas,
		LastHeartbeat: c.LastHeartbeat,
		LastSyncAt:    c.LastSyncAt,
		CreatedAt:     c.CreatedAt.UTC(),
	}
}

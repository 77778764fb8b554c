package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// SyncHandler receives cartera snapshots pushed by connectors.
type SyncHandler struct {
	service ports.SyncService
}

func NewSyncHandler(service ports.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// SyncCartera reconciles a full cartera snapshot for one empresa. The
// organization is taken from the connector token.
//
// @Summary      Push a cartera snapshot
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      syncCarteraRequest  true  "Cartera snapshot"
// @Success      200   {object}  syncCarteraResponse
// @Failure      400   {object}  problemResponse
// @Failure      401   {object}  problemResponse
// @Failure      403   {object}  problemResponse
// @Failure      503   {object}  problemResponse
// @Router       /api/sync/cartera [post]
func (h *SyncHandler) SyncCartera(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req syncCarteraRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.service.SyncCartera(c.Request().Context(), principal, toSyncInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSyncResponse(result))
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// CarteraHandler serves the dashboard reads. Every route accepts an optional
// empresa query parameter; without it the whole organization is covered.
type CarteraHandler struct {
	service ports.CarteraService
}

func NewCarteraHandler(service ports.CarteraService) *CarteraHandler {
	return &CarteraHandler{service: service}
}

// Resumen returns the portfolio totals.
//
// @Summary      Cartera summary
// @Tags         cartera
// @Produce      json
// @Security     BearerAuth
// @Param        empresa  query     string  false  "Empresa id"
// @Success      200      {object}  domain.Resumen
// @Failure      401      {object}  problemResponse
// @Failure      403      {object}  problemResponse
// @Failure      503      {object}  problemResponse
// @Router       /api/cartera/resumen [get]
func (h *CarteraHandler) Resumen(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	resumen, err := h.service.Resumen(c.Request().Context(), principal, c.QueryParam("empresa"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resumen)
}

// Antiguedad returns the aging report of open invoices.
//
// @Summary      Cartera aging
// @Tags         cartera
// @Produce      json
// @Security     BearerAuth
// @Param        empresa  query     string  false  "Empresa id"
// @Success      200      {object}  domain.AgingReport
// @Failure      401      {object}  problemResponse
// @Failure      403      {object}  problemResponse
// @Failure      503      {object}  problemResponse
// @Router       /api/cartera/antiguedad [get]
func (h *CarteraHandler) Antiguedad(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	report, err := h.service.Antiguedad(c.Request().Context(), principal, c.QueryParam("empresa"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Refresh drops the cached cartera views so the next read hits the store.
//
// @Summary      Invalidate cached cartera views
// @Tags         cartera
// @Security     BearerAuth
// @Param        empresa  query  string  false  "Empresa id"
// @Success      204
// @Failure      401  {object}  problemResponse
// @Failure      403  {object}  problemResponse
// @Router       /api/cartera/refresh [post]
func (h *CarteraHandler) Refresh(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Refresh(c.Request().Context(), principal, c.QueryParam("empresa")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListClientes returns one page of clients.
//
// @Summary      List clients
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        empresa   query     string  false  "Empresa id"
// @Param        page      query     int     false  "Page number"       default(1)
// @Param        pageSize  query     int     false  "Page size (1-100)" default(10)
// @Param        search    query     string  false  "Name or clave, case-insensitive"
// @Param        conSaldo  query     bool    false  "Only clients with a positive balance"
// @Param        orderBy   query     string  false  "nombre, clave, saldoTotal or saldoVencido"  default(saldoVencido)
// @Param        orderDir  query     string  false  "asc or desc"  default(desc)
// @Success      200       {object}  clientesListResponse
// @Failure      400       {object}  problemResponse
// @Failure      401       {object}  problemResponse
// @Failure      403       {object}  problemResponse
// @Router       /api/clientes [get]
func (h *CarteraHandler) ListClientes(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var q clienteListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return fmt.Errorf("%w: invalid query parameters", domain.ErrValidation)
	}

	page, err := h.service.ListClientes(c.Request().Context(), principal, ports.ClienteQuery{
		EmpresaID: q.Empresa,
		Page:      q.Page,
		PageSize:  q.PageSize,
		Search:    q.Search,
		ConSaldo:  q.ConSaldo,
		OrderBy:   q.OrderBy,
		OrderDir:  q.OrderDir,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientesListResponse(page))
}

// GetCliente returns one client with its invoices and contacts. The path
// segment may be the internal id or the clave.
//
// @Summary      Client detail
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Client id or clave"
// @Param        empresa  query     string  false  "Empresa id"
// @Success      200      {object}  clienteDetailResponse
// @Failure      401      {object}  problemResponse
// @Failure      403      {object}  problemResponse
// @Failure      404      {object}  problemResponse
// @Router       /api/clientes/{id} [get]
func (h *CarteraHandler) GetCliente(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetCliente(c.Request().Context(), principal, c.QueryParam("empresa"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClienteDetailResponse(detail))
}

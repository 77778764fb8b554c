package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

type clienteListQuery struct {
	Empresa  string `query:"empresa"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Search   string `query:"search"`
	ConSaldo bool   `query:"conSaldo"`
	OrderBy  string `query:"orderBy"`
	OrderDir string `query:"orderDir"`
}

type clienteListItem struct {
	ID              string          `json:"id"`
	Clave           string          `json:"clave"`
	Nombre          string          `json:"nombre"`
	SaldoTotal      decimal.Decimal `json:"saldoTotal"   swaggertype:"number"`
	SaldoVencido    decimal.Decimal `json:"saldoVencido" swaggertype:"number"`
	DiasMaxVencido  int             `json:"diasMaxVencido"`
	FacturasActivas int             `json:"facturasActivas"`
}

type clientesListResponse struct {
	Items []clienteListItem `json:"items"`
	Meta  paginationMeta    `json:"meta"`
}

type facturaResponse struct {
	ID              string          `json:"id"`
	Folio           string          `json:"folio"`
	Fecha           time.Time       `json:"fecha"`
	Vencimiento     time.Time       `json:"vencimiento"`
	Total           decimal.Decimal `json:"total" swaggertype:"number"`
	Saldo           decimal.Decimal `json:"saldo" swaggertype:"number"`
	DiasVencido     int             `json:"diasVencido"`
	Status          string          `json:"status"`
	RangoAntiguedad string          `json:"rangoAntiguedad" example:"1-30"`
}

type contactoResponse struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

type clienteDetailResponse struct {
	ID              string             `json:"id"`
	EmpresaID       string             `json:"empresaId"`
	Clave           string             `json:"clave"`
	Nombre          string             `json:"nombre"`
	RFC             string             `json:"rfc,omitempty"`
	Email           string             `json:"email,omitempty"`
	Telefono        string             `json:"telefono,omitempty"`
	Direccion       domain.Direccion   `json:"direccion"`
	SaldoTotal      decimal.Decimal    `json:"saldoTotal"   swaggertype:"number"`
	SaldoVencido    decimal.Decimal    `json:"saldoVencido" swaggertype:"number"`
	DiasMaxVencido  int                `json:"diasMaxVencido"`
	FacturasActivas int                `json:"facturasActivas"`
	LastSyncAt      *time.Time         `json:"lastSyncAt,omitempty"`
	Facturas        []facturaResponse  `json:"facturas"`
	Contactos       []contactoResponse `json:"contactos"`
}

func toClientesListResponse(p *ports.ClientePage) clientesListResponse {
	items := make([]clienteListItem, 0, len(p.Items))
	for i := range p.Items {
		c := &p.Items[i]
		items = append(items, clienteListItem{
			ID:              c.ID,
			Clave:           c.Clave,
			Nombre:          c.Nombre,
			SaldoTotal:      c.SaldoTotal,
			SaldoVencido:    c.SaldoVencido,
			DiasMaxVencido:  c.DiasMaxVencido,
			FacturasActivas: c.FacturasActivas,
		})
	}
	return clientesListResponse{
		Items: items,
		Meta: paginationMeta{
			Page:       p.Page,
			PageSize:   p.PageSize,
			Total:      p.Total,
			TotalPages: p.TotalPages,
		},
	}
}

func toClienteDetailResponse(d *ports.ClienteDetail) clienteDetailResponse {
	c := d.Cliente
	resp := clienteDetailResponse{
		ID:              c.ID,
		EmpresaID:       c.EmpresaID,
		Clave:           c.Clave,
		Nombre:          c.Nombre,
		RFC:             c.RFC,
		Email:           c.Email,
		Telefono:        c.Telefono,
		Direccion:       c.Direccion,
		SaldoTotal:      c.SaldoTotal,
		SaldoVencido:    c.SaldoVencido,
		DiasMaxVencido:  c.DiasMaxVencido,
		FacturasActivas: c.FacturasActivas,
		LastSyncAt:      c.LastSyncAt,
		Facturas:        make([]facturaResponse, 0, len(d.Facturas)),
		Contactos:       make([]contactoResponse, 0, len(d.Contactos)),
	}
	for i := range d.Facturas {
		f := &d.Facturas[i]
		resp.Facturas = append(resp.Facturas, facturaResponse{
			ID:              f.ID,
			Folio:           f.Folio,
			Fecha:           f.Fecha.UTC(),
			Vencimiento:     f.Vencimiento.UTC(),
			Total:           f.Total,
			Saldo:           f.Saldo,
			DiasVencido:     f.DiasVencido,
			Status:          string(f.Status),
			RangoAntiguedad: string(f.Bucket()),
		})
	}
	for _, ct := range d.Contactos {
		resp.Contactos = append(resp.Contactos, contactoResponse{
			ID:       ct.ID,
			Nombre:   ct.Nombre,
			Email:    ct.Email,
			Telefono: ct.Telefono,
		})
	}
	return resp
}

package ports

import (
	"context"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// ClienteQuery is the raw list request; the service normalises paging and
// ordering before it reaches the repository.
type ClienteQuery struct {
	EmpresaID string
	Page      int
	PageSize  int
	Search    string
	ConSaldo  bool
	OrderBy   string
	OrderDir  string
}

type ClientePage struct {
	Items      []domain.Cliente `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
}

type ClienteDetail struct {
	Cliente   domain.Cliente    `json:"cliente"`
	Facturas  []domain.Factura  `json:"facturas"`
	Contactos []domain.Contacto `json:"contactos"`
}

type CarteraService interface {
	Resumen(ctx context.Context, principal domain.Principal, empresaID string) (*domain.Resumen, error)
	Antiguedad(ctx context.Context, principal domain.Principal, empresaID string) (*domain.AgingReport, error)
	ListClientes(ctx context.Context, principal domain.Principal, q ClienteQuery) (*ClientePage, error)
	GetCliente(ctx context.Context, principal domain.Principal, empresaID, ref string) (*ClienteDetail, error)
	Refresh(ctx context.Context, principal domain.Principal, empresaID string) error
}

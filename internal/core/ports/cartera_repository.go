package ports

import (
	"context"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// ClienteFilter carries the list query. OrganizationID is always enforced;
// an empty EmpresaID spans every empresa of the organization.
type ClienteFilter struct {
	OrganizationID string
	EmpresaID      string
	Search         string // case-insensitive match on nombre or clave
	ConSaldo       bool   // only saldoTotal > 0
	OrderBy        string // nombre | clave | saldoTotal | saldoVencido
	Descending     bool
	Page           int // 1-based
	PageSize       int
}

type ClienteRepository interface {
	Insert(ctx context.Context, c *domain.Cliente) error
	Update(ctx context.Context, c *domain.Cliente) error
	FindByClave(ctx context.Context, organizationID, clave string) (*domain.Cliente, error)
	// FindByRef resolves ref as an internal id first and a clave second.
	FindByRef(ctx context.Context, organizationID, empresaID, ref string) (*domain.Cliente, error)
	List(ctx context.Context, filter ClienteFilter) ([]domain.Cliente, int64, error)
	ListAll(ctx context.Context, organizationID, empresaID string) ([]domain.Cliente, error)
}

type FacturaRepository interface {
	Insert(ctx context.Context, f *domain.Factura) error
	Update(ctx context.Context, f *domain.Factura) error
	ListByCliente(ctx context.Context, organizationID, clienteID string) ([]domain.Factura, error)
	// ListOpen returns invoices whose status is neither pagada nor cancelada.
	ListOpen(ctx context.Context, organizationID, empresaID string) ([]domain.Factura, error)
}

type ContactoRepository interface {
	Insert(ctx context.Context, c *domain.Contacto) error
	Update(ctx context.Context, c *domain.Contacto) error
	ListByCliente(ctx context.Context, organizationID, clienteID string) ([]domain.Contacto, error)
}

type SyncRunRepository interface {
	Insert(ctx context.Context, run *domain.SyncRun) error
}

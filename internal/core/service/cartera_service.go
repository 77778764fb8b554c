package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CarteraDeps struct {
	Clientes  ports.ClienteRepository
	Facturas  ports.FacturaRepository
	Contactos ports.ContactoRepository
	Cache     ports.Cache
	// TTL applies to aggregates, ShortTTL to the more volatile list pages.
	TTL      time.Duration
	ShortTTL time.Duration
}

// CarteraService serves the dashboard reads from the synced store through
// the cache.
type CarteraService struct {
	clientes  ports.ClienteRepository
	facturas  ports.FacturaRepository
	contactos ports.ContactoRepository
	cache     ports.Cache
	ttl       time.Duration
	shortTTL  time.Duration
	log       zerolog.Logger
}

func NewCarteraService(deps CarteraDeps, log zerolog.Logger) *CarteraService {
	if deps.TTL <= 0 {
		deps.TTL = 15 * time.Minute
	}
	if deps.ShortTTL <= 0 {
		deps.ShortTTL = 5 * time.Minute
	}
	return &CarteraService{
		clientes:  deps.Clientes,
		facturas:  deps.Facturas,
		contactos: deps.Contactos,
		cache:     deps.Cache,
		ttl:       deps.TTL,
		shortTTL:  deps.ShortTTL,
		log:       log,
	}
}

func (s *CarteraService) Resumen(ctx context.Context, principal domain.Principal, empresaID string) (*domain.Resumen, error) {
	if !principal.Satisfies(domain.PolicyCarteraRead) {
		return nil, domain.ErrForbidden
	}
	orgID := principal.OrganizationID
	key := cacheKey(orgID, empresaID, "resumen", "summary")

	return getOrSet(ctx, s.cache, s.log, "resumen", key, s.ttl, func(ctx context.Context) (*domain.Resumen, error) {
		clientes, err := s.clientes.ListAll(ctx, orgID, empresaID)
		if err != nil {
			return nil, fmt.Errorf("resumen: %w", err)
		}
		r := domain.BuildResumen(clientes)
		return &r, nil
	})
}

func (s *CarteraService) Antiguedad(ctx context.Context, principal domain.Principal, empresaID string) (*domain.AgingReport, error) {
	if !principal.Satisfies(domain.PolicyCarteraRead) {
		return nil, domain.ErrForbidden
	}
	orgID := principal.OrganizationID
	key := cacheKey(orgID, empresaID, "antiguedad", "buckets")

	return getOrSet(ctx, s.cache, s.log, "antiguedad", key, s.ttl, func(ctx context.Context) (*domain.AgingReport, error) {
		facturas, err := s.facturas.ListOpen(ctx, orgID, empresaID)
		if err != nil {
			return nil, fmt.Errorf("antiguedad: %w", err)
		}
		report := domain.BuildAging(facturas)
		return &report, nil
	})
}

func (s *CarteraService) ListClientes(ctx context.Context, principal domain.Principal, q ports.ClienteQuery) (*ports.ClientePage, error) {
	if !principal.Satisfies(domain.PolicyCarteraRead) {
		return nil, domain.ErrForbidden
	}
	filter := normalizeClienteQuery(principal.OrganizationID, q)
	key := cacheKey(filter.OrganizationID, filter.EmpresaID, "clientes", clienteVariant(filter))

	return getOrSet(ctx, s.cache, s.log, "clientes", key, s.shortTTL, func(ctx context.Context) (*ports.ClientePage, error) {
		items, total, err := s.clientes.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list clientes: %w", err)
		}
		if items == nil {
			items = []domain.Cliente{}
		}
		totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
		return &ports.ClientePage{
			Items:      items,
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			Total:      total,
			TotalPages: totalPages,
		}, nil
	})
}

// GetCliente resolves ref as an id or clave inside the caller's organization.
// Clients of other organizations are reported as not found.
func (s *CarteraService) GetCliente(ctx context.Context, principal domain.Principal, empresaID, ref string) (*ports.ClienteDetail, error) {
	if !principal.Satisfies(domain.PolicyCarteraRead) {
		return nil, domain.ErrForbidden
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrClienteNotFound
	}
	orgID := principal.OrganizationID
	key := cacheKey(orgID, empresaID, "cliente", url.QueryEscape(ref))

	detail, err := getOrSet(ctx, s.cache, s.log, "cliente", key, s.ttl, func(ctx context.Context) (*ports.ClienteDetail, error) {
		c, err := s.clientes.FindByRef(ctx, orgID, empresaID, ref)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get cliente: %w", err)
		}
		facturas, err := s.facturas.ListByCliente(ctx, orgID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("get cliente facturas: %w", err)
		}
		contactos, err := s.contactos.ListByCliente(ctx, orgID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("get cliente contactos: %w", err)
		}
		if facturas == nil {
			facturas = []domain.Factura{}
		}
		if contactos == nil {
			contactos = []domain.Contacto{}
		}
		return &ports.ClienteDetail{Cliente: *c, Facturas: facturas, Contactos: contactos}, nil
	})
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrClienteNotFound
	}
	return detail, nil
}

// Refresh drops cached reads for the empresa, or for the whole organization
// when empresaID is empty.
func (s *CarteraService) Refresh(ctx context.Context, principal domain.Principal, empresaID string) error {
	if !principal.Satisfies(domain.PolicyCarteraRead) {
		return domain.ErrForbidden
	}
	pattern := organizationPattern(principal.OrganizationID)
	if empresaID != "" {
		pattern = empresaPattern(principal.OrganizationID, empresaID)
	}
	s.log.Info().
		Str("organization_id", principal.OrganizationID).
		Str("empresa_id", empresaID).
		Msg("cartera cache refresh requested")
	invalidate(ctx, s.cache, s.log, pattern)
	return nil
}

func normalizeClienteQuery(orgID string, q ports.ClienteQuery) ports.ClienteFilter {
	f := ports.ClienteFilter{
		OrganizationID: orgID,
		EmpresaID:      strings.TrimSpace(q.EmpresaID),
		Search:         strings.TrimSpace(q.Search),
		ConSaldo:       q.ConSaldo,
		Page:           q.Page,
		PageSize:       q.PageSize,
		Descending:     !strings.EqualFold(q.OrderDir, "asc"),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize == 0:
		f.PageSize = defaultPageSize
	case f.PageSize < 1:
		f.PageSize = 1
	case f.PageSize > maxPageSize:
		f.PageSize = maxPageSize
	}
	switch strings.ToLower(q.OrderBy) {
	case "nombre":
		f.OrderBy = "nombre"
	case "clave":
		f.OrderBy = "clave"
	case "saldototal":
		f.OrderBy = "saldoTotal"
	default:
		f.OrderBy = "saldoVencido"
	}
	return f
}

func clienteVariant(f ports.ClienteFilter) string {
	dir := "asc"
	if f.Descending {
		dir = "desc"
	}
	return fmt.Sprintf("p%d:s%d:%s:%s:saldo=%t:q=%s",
		f.Page, f.PageSize, f.OrderBy, dir, f.ConSaldo, url.QueryEscape(strings.ToLower(f.Search)))
}

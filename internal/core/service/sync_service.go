package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cobranzacloud/cobranza-cloud/internal/api/metrics"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/ids"
)

type SyncDeps struct {
	Clientes   ports.ClienteRepository
	Facturas   ports.FacturaRepository
	Contactos  ports.ContactoRepository
	Connectors ports.ConnectorRepository
	SyncRuns   ports.SyncRunRepository
	Transactor ports.Transactor
	Cache      ports.Cache
	Audit      ports.AuditRecorder
}

// SyncService merges connector snapshots into the canonical cartera store.
type SyncService struct {
	clientes   ports.ClienteRepository
	facturas   ports.FacturaRepository
	contactos  ports.ContactoRepository
	connectors ports.ConnectorRepository
	runs       ports.SyncRunRepository
	tx         ports.Transactor
	cache      ports.Cache
	audit      ports.AuditRecorder
	log        zerolog.Logger
	now        func() time.Time
}

func NewSyncService(deps SyncDeps, log zerolog.Logger, opts ...Option) *SyncService {
	o := applyOptions(opts)
	return &SyncService{
		clientes:   deps.Clientes,
		facturas:   deps.Facturas,
		contactos:  deps.Contactos,
		connectors: deps.Connectors,
		runs:       deps.SyncRuns,
		tx:         deps.Transactor,
		cache:      deps.Cache,
		audit:      deps.Audit,
		log:        log,
		now:        o.now,
	}
}

// SyncCartera applies the whole snapshot in one transaction. The organization
// always comes from the connector principal.
func (s *SyncService) SyncCartera(ctx context.Context, principal domain.Principal, in ports.SyncCarteraInput) (*ports.SyncResult, error) {
	if !principal.IsConnector() || !principal.HasPermission(domain.PermSyncWrite) {
		return nil, domain.ErrForbidden
	}
	if err := validateSnapshot(&in); err != nil {
		return nil, err
	}

	orgID := principal.OrganizationID
	started := time.Now()
	now := s.now()
	run := &domain.SyncRun{
		ID:             ids.New(),
		OrganizationID: orgID,
		ConnectorID:    principal.SubjectID,
		EmpresaID:      in.EmpresaID,
		SyncType:       in.SyncType,
		Checksum:       in.Checksum,
		SourceTime:     in.Timestamp,
		Reported:       in.Resumen,
		ProcessedAt:    now,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		run.Stats = domain.SyncStats{}
		for i := range in.Clientes {
			if err := s.reconcileCliente(ctx, orgID, in.EmpresaID, &in.Clientes[i], now, &run.Stats); err != nil {
				return err
			}
		}
		run.Stats.ClientesActualizados = run.Stats.Nuevos + run.Stats.Modificados

		if err := s.connectors.TouchSync(ctx, orgID, principal.SubjectID, now); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return s.runs.Insert(ctx, run)
	})
	metrics.SyncDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).
			Str("organization_id", orgID).
			Str("connector_id", principal.SubjectID).
			Str("empresa_id", in.EmpresaID).
			Msg("sync rolled back")
		return nil, fmt.Errorf("sync cartera: %w", err)
	}

	metrics.SyncRunsTotal.WithLabelValues("committed").Inc()
	metrics.SyncClientesTotal.WithLabelValues("nuevo").Add(float64(run.Stats.Nuevos))
	metrics.SyncClientesTotal.WithLabelValues("modificado").Add(float64(run.Stats.Modificados))
	metrics.SyncClientesTotal.WithLabelValues("sin_cambios").Add(float64(run.Stats.SinCambios))

	invalidate(ctx, s.cache, s.log, empresaPattern(orgID, in.EmpresaID), empresaPattern(orgID, ""))

	s.audit.Record(domain.AuditEvent{
		OrganizationID: orgID,
		Action:         domain.AuditSyncCompleted,
		ActorKind:      domain.OwnerConnector,
		ActorID:        principal.SubjectID,
		Details: map[string]any{
			"syncId":      run.ID,
			"empresaId":   in.EmpresaID,
			"nuevos":      run.Stats.Nuevos,
			"modificados": run.Stats.Modificados,
		},
		OccurredAt: now,
	})
	s.log.Info().
		Str("organization_id", orgID).
		Str("connector_id", principal.SubjectID).
		Str("empresa_id", in.EmpresaID).
		Str("sync_id", run.ID).
		Int("nuevos", run.Stats.Nuevos).
		Int("modificados", run.Stats.Modificados).
		Int("sin_cambios", run.Stats.SinCambios).
		Int("facturas", run.Stats.FacturasActualizadas).
		Msg("sync committed")

	return &ports.SyncResult{Success: true, SyncID: run.ID, ProcessedAt: now, Stats: run.Stats}, nil
}

func validateSnapshot(in *ports.SyncCarteraInput) error {
	in.EmpresaID = strings.TrimSpace(in.EmpresaID)
	if in.EmpresaID == "" {
		return fmt.Errorf("%w: empresaId is required", domain.ErrValidation)
	}
	for i := range in.Clientes {
		c := &in.Clientes[i]
		if isDelete(c.Operation) {
			continue
		}
		c.Clave = strings.TrimSpace(c.Clave)
		if c.Clave == "" {
			return fmt.Errorf("%w: clientes[%d].clave is required", domain.ErrValidation, i)
		}
		for j := range c.Facturas {
			f := &c.Facturas[j]
			f.Folio = strings.TrimSpace(f.Folio)
			if f.Folio == "" && !isDelete(f.Operation) {
				return fmt.Errorf("%w: clientes[%d].facturas[%d].folio is required", domain.ErrValidation, i, j)
			}
		}
	}
	return nil
}

func isDelete(op string) bool {
	return strings.EqualFold(op, domain.OperationDelete)
}

func (s *SyncService) reconcileCliente(ctx context.Context, orgID, empresaID string, in *ports.ClienteSyncInput, now time.Time, stats *domain.SyncStats) error {
	if isDelete(in.Operation) {
		return nil
	}
	snap := domain.ClienteSnapshot{
		Clave:          in.Clave,
		Nombre:         strings.TrimSpace(in.Nombre),
		RFC:            strings.TrimSpace(in.RFC),
		SaldoTotal:     domain.RoundMoney(in.SaldoTotal),
		SaldoVencido:   domain.RoundMoney(in.SaldoVencido),
		DiasMaxVencido: in.DiasMaxVencido,
	}

	cliente, err := s.clientes.FindByClave(ctx, orgID, in.Clave)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cliente = &domain.Cliente{
			ID:             ids.New(),
			OrganizationID: orgID,
			EmpresaID:      empresaID,
			Clave:          in.Clave,
			CreatedAt:      now,
		}
		cliente.Apply(snap, now)
		stats.Nuevos++
		if err := s.reconcileFacturas(ctx, cliente, in.Facturas, now, stats); err != nil {
			return err
		}
		if err := s.clientes.Insert(ctx, cliente); err != nil {
			return fmt.Errorf("insert cliente %s: %w", in.Clave, err)
		}
	case err != nil:
		return fmt.Errorf("find cliente %s: %w", in.Clave, err)
	default:
		if cliente.Differs(snap) {
			stats.Modificados++
		} else {
			stats.SinCambios++
		}
		cliente.EmpresaID = empresaID
		cliente.Apply(snap, now)
		if err := s.reconcileFacturas(ctx, cliente, in.Facturas, now, stats); err != nil {
			return err
		}
		if err := s.clientes.Update(ctx, cliente); err != nil {
			return fmt.Errorf("update cliente %s: %w", in.Clave, err)
		}
	}

	return s.reconcileContactos(ctx, cliente, in.Contactos, now)
}

// reconcileFacturas upserts invoices by folio and recomputes the client's
// active invoice count. A nil slice leaves stored invoices and the count
// untouched.
func (s *SyncService) reconcileFacturas(ctx context.Context, cliente *domain.Cliente, in []ports.FacturaSyncInput, now time.Time, stats *domain.SyncStats) error {
	if in == nil {
		return nil
	}
	existing, err := s.facturas.ListByCliente(ctx, cliente.OrganizationID, cliente.ID)
	if err != nil {
		return fmt.Errorf("list facturas %s: %w", cliente.Clave, err)
	}
	byFolio := make(map[string]*domain.Factura, len(existing))
	for i := range existing {
		byFolio[existing[i].Folio] = &existing[i]
	}

	for i := range in {
		fi := &in[i]
		if isDelete(fi.Operation) {
			continue
		}
		f, found := byFolio[fi.Folio]
		if !found {
			f = &domain.Factura{
				ID:             ids.New(),
				OrganizationID: cliente.OrganizationID,
				ClienteID:      cliente.ID,
				Folio:          fi.Folio,
				CreatedAt:      now,
			}
		}
		f.EmpresaID = cliente.EmpresaID
		f.Fecha = fi.Fecha
		f.Vencimiento = fi.Vencimiento
		f.Total = domain.RoundMoney(fi.Total)
		f.Saldo = domain.RoundMoney(fi.Saldo)
		f.DiasVencido = fi.DiasVencido
		f.Status = domain.StatusFor(fi.DiasVencido)
		f.LastSyncAt = &now
		f.UpdatedAt = now

		if found {
			err = s.facturas.Update(ctx, f)
		} else {
			err = s.facturas.Insert(ctx, f)
			byFolio[f.Folio] = f
		}
		if err != nil {
			return fmt.Errorf("upsert factura %s/%s: %w", cliente.Clave, fi.Folio, err)
		}
		stats.FacturasActualizadas++
	}

	activas := 0
	for _, f := range byFolio {
		if f.Status.IsActive() {
			activas++
		}
	}
	cliente.FacturasActivas = activas
	return nil
}

// reconcileContactos matches contacts by name since connectors send no
// stable key for them.
func (s *SyncService) reconcileContactos(ctx context.Context, cliente *domain.Cliente, in []ports.ContactoSyncInput, now time.Time) error {
	if len(in) == 0 {
		return nil
	}
	existing, err := s.contactos.ListByCliente(ctx, cliente.OrganizationID, cliente.ID)
	if err != nil {
		return fmt.Errorf("list contactos %s: %w", cliente.Clave, err)
	}
	byName := make(map[string]*domain.Contacto, len(existing))
	for i := range existing {
		byName[existing[i].Nombre] = &existing[i]
	}

	for i := range in {
		ci := &in[i]
		name := strings.TrimSpace(ci.Nombre)
		if name == "" {
			continue
		}
		if c, ok := byName[name]; ok {
			c.Email = strings.TrimSpace(ci.Email)
			c.Telefono = strings.TrimSpace(ci.Telefono)
			c.UpdatedAt = now
			if err := s.contactos.Update(ctx, c); err != nil {
				return fmt.Errorf("update contacto %s/%s: %w", cliente.Clave, name, err)
			}
			continue
		}
		c := &domain.Contacto{
			ID:             ids.New(),
			OrganizationID: cliente.OrganizationID,
			ClienteID:      cliente.ID,
			Nombre:         name,
			Email:          strings.TrimSpace(ci.Email),
			Telefono:       strings.TrimSpace(ci.Telefono),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.contactos.Insert(ctx, c); err != nil {
			return fmt.Errorf("insert contacto %s/%s: %w", cliente.Clave, name, err)
		}
		byName[name] = c
	}
	return nil
}

package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// SyncCarteraInput is a full snapshot pushed by a connector. The tenant is
// always taken from the connector principal, never from the payload.
type SyncCarteraInput struct {
	EmpresaID string
	SyncType  string
	Timestamp time.Time
	Checksum  string
	Resumen   domain.ReportedResumen
	Clientes  []ClienteSyncInput
}

type ClienteSyncInput struct {
	Operation      string
	Clave          string
	Nombre         string
	RFC            string
	SaldoTotal     decimal.Decimal
	SaldoVencido   decimal.Decimal
	DiasMaxVencido int
	// Facturas and Contactos are nil when the connector did not send them,
	// which leaves the stored children untouched.
	Facturas  []FacturaSyncInput
	Contactos []ContactoSyncInput
}

type FacturaSyncInput struct {
	Operation   string
	Folio       string
	Fecha       time.Time
	Vencimiento time.Time
	Total       decimal.Decimal
	Saldo       decimal.Decimal
	DiasVencido int
}

type ContactoSyncInput struct {
	Nombre   string
	Email    string
	Telefono string
}

type SyncResult struct {
	Success     bool
	SyncID      string
	ProcessedAt time.Time
	Stats       domain.SyncStats
}

type SyncService interface {
	SyncCartera(ctx context.Context, principal domain.Principal, in SyncCarteraInput) (*SyncResult, error)
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation values a connector may attach to synced records.
const (
	OperationUpsert = "upsert"
	OperationDelete = "delete"
)

// SyncStats summarises one reconciliation run.
type SyncStats struct {
	ClientesActualizados int `json:"clientesActualizados"`
	FacturasActualizadas int `json:"facturasActualizadas"`
	Nuevos               int `json:"nuevos"`
	Modificados          int `json:"modificados"`
	SinCambios           int `json:"sinCambios"`
}

// ReportedResumen is the connector's own view of the portfolio totals, kept
// alongside each run for reconciliation audits.
type ReportedResumen struct {
	TotalCartera     decimal.Decimal
	CarteraVigente   decimal.Decimal
	CarteraVencida   decimal.Decimal
	ClientesConSaldo int
	FacturasActivas  int
}

// SyncRun is the persisted record of a committed sync.
type SyncRun struct {
	ID             string
	OrganizationID string
	ConnectorID    string
	EmpresaID      string
	SyncType       string
	Checksum       string
	SourceTime     time.Time
	Reported       ReportedResumen
	Stats          SyncStats
	ProcessedAt    time.Time
}

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

// syncTime accepts RFC 3339 timestamps as well as the zone-less and date-only
// layouts desktop ERPs emit. Zone-less values are read as UTC.
type syncTime struct {
	time.Time
}

var syncTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (t *syncTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range syncTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

type carteraResumenRequest struct {
	TotalCartera     decimal.Decimal `json:"totalCartera"     swaggertype:"number"`
	CarteraVigente   decimal.Decimal `json:"carteraVigente"   swaggertype:"number"`
	CarteraVencida   decimal.Decimal `json:"carteraVencida"   swaggertype:"number"`
	ClientesConSaldo int             `json:"clientesConSaldo"`
	FacturasActivas  int             `json:"facturasActivas"`
}

// rangoAntiguedadRequest is the connector's own aging breakdown. It is
// accepted for compatibility; aging is always recomputed from invoices.
type rangoAntiguedadRequest struct {
	Rango      string          `json:"rango"`
	Monto      decimal.Decimal `json:"monto"      swaggertype:"number"`
	Facturas   int             `json:"facturas"`
	Porcentaje decimal.Decimal `json:"porcentaje" swaggertype:"number"`
}

type facturaSyncRequest struct {
	Operation   string          `json:"operation"   example:"upsert"`
	Folio       string          `json:"folio"`
	Fecha       syncTime        `json:"fecha"       swaggertype:"string" format:"date-time"`
	Vencimiento syncTime        `json:"vencimiento" swaggertype:"string" format:"date-time"`
	Total       decimal.Decimal `json:"total"       swaggertype:"number"`
	Saldo       decimal.Decimal `json:"saldo"       swaggertype:"number"`
	DiasVencido int             `json:"diasVencido"`
}

type contactoSyncRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

type clienteSyncRequest struct {
	Operation      string                `json:"operation"      example:"upsert"`
	Clave          string                `json:"clave"`
	Nombre         string                `json:"nombre"`
	RFC            string                `json:"rfc"`
	SaldoTotal     decimal.Decimal       `json:"saldoTotal"     swaggertype:"number"`
	SaldoVencido   decimal.Decimal       `json:"saldoVencido"   swaggertype:"number"`
	DiasMaxVencido int                   `json:"diasMaxVencido"`
	Facturas       []facturaSyncRequest  `json:"facturas"`
	Contactos      []contactoSyncRequest `json:"contactos"      validate:"omitempty,dive"`
}

type syncCarteraData struct {
	Resumen    carteraResumenRequest    `json:"resumen"`
	Antiguedad []rangoAntiguedadRequest `json:"antiguedad"`
	Clientes   []clienteSyncRequest     `json:"clientes"   validate:"omitempty,dive"`
}

type syncCarteraRequest struct {
	EmpresaID string          `json:"empresaId" validate:"required"`
	SyncType  string          `json:"syncType"  example:"full"`
	Timestamp syncTime        `json:"timestamp" swaggertype:"string" format:"date-time"`
	Checksum  string          `json:"checksum"`
	Data      syncCarteraData `json:"data"`
}

type syncCarteraResponse struct {
	Success     bool             `json:"success"`
	SyncID      string           `json:"syncId"`
	ProcessedAt time.Time        `json:"processedAt"`
	Stats       domain.SyncStats `json:"stats"`
}

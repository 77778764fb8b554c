package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money keeps once stored.
const MoneyScale = 4

// RoundMoney rounds d to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(MoneyScale) }

// FacturaStatus is set at sync time from diasVencido and is not recomputed
// afterwards.
type FacturaStatus string

const (
	FacturaVigente   FacturaStatus = "vigente"
	FacturaVencida   FacturaStatus = "vencida"
	FacturaPagada    FacturaStatus = "pagada"
	FacturaCancelada FacturaStatus = "cancelada"
)

// StatusFor derives the status a synced invoice receives.
func StatusFor(diasVencido int) FacturaStatus {
	if diasVencido > 0 {
		return FacturaVencida
	}
	return FacturaVigente
}

// IsActive reports whether the invoice still counts towards facturasActivas.
func (s FacturaStatus) IsActive() bool {
	return s != FacturaPagada && s != FacturaCancelada
}

// AgingBucket is a days-past-due range. It is always derived, never stored.
type AgingBucket string

const (
	BucketVigente AgingBucket = "vigente"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "90+"
)

// AgingBuckets lists every bucket in report order.
var AgingBuckets = []AgingBucket{BucketVigente, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// BucketFor maps days past due to its aging bucket.
func BucketFor(diasVencido int) AgingBucket {
	switch {
	case diasVencido <= 0:
		return BucketVigente
	case diasVencido <= 30:
		return Bucket1To30
	case diasVencido <= 60:
		return Bucket31To60
	case diasVencido <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// Label is the Spanish display name used by the dashboard.
func (b AgingBucket) Label() string {
	switch b {
	case BucketVigente:
		return "Vigente"
	case Bucket1To30:
		return "1-30 días"
	case Bucket31To60:
		return "31-60 días"
	case Bucket61To90:
		return "61-90 días"
	default:
		return "Más de 90 días"
	}
}

// Cliente is a debtor account, unique per (OrganizationID, Clave).
type Cliente struct {
	ID              string          `json:"id"`
	OrganizationID  string          `json:"organizationId"`
	EmpresaID       string          `json:"empresaId"`
	Clave           string          `json:"clave"`
	Nombre          string          `json:"nombre"`
	RFC             string          `json:"rfc,omitempty"`
	Email           string          `json:"email,omitempty"`
	Telefono        string          `json:"telefono,omitempty"`
	Direccion       Direccion       `json:"direccion"`
	SaldoTotal      decimal.Decimal `json:"saldoTotal"`
	SaldoVencido    decimal.Decimal `json:"saldoVencido"`
	DiasMaxVencido  int             `json:"diasMaxVencido"`
	FacturasActivas int             `json:"facturasActivas"`
	LastSyncAt      *time.Time      `json:"lastSyncAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type Direccion struct {
	Calle        string `json:"calle,omitempty"`
	Colonia      string `json:"colonia,omitempty"`
	Ciudad       string `json:"ciudad,omitempty"`
	Estado       string `json:"estado,omitempty"`
	CodigoPostal string `json:"codigoPostal,omitempty"`
}

// ClienteSnapshot carries the fields a sync overwrites on a client.
type ClienteSnapshot struct {
	Clave          string
	Nombre         string
	RFC            string
	SaldoTotal     decimal.Decimal
	SaldoVencido   decimal.Decimal
	DiasMaxVencido int
}

// Differs reports whether applying s would change any tracked field.
func (c *Cliente) Differs(s ClienteSnapshot) bool {
	return c.Nombre != s.Nombre ||
		c.RFC != s.RFC ||
		!c.SaldoTotal.Equal(s.SaldoTotal) ||
		!c.SaldoVencido.Equal(s.SaldoVencido) ||
		c.DiasMaxVencido != s.DiasMaxVencido
}

// Apply overwrites every tracked field and stamps the sync time.
func (c *Cliente) Apply(s ClienteSnapshot, now time.Time) {
	c.Nombre = s.Nombre
	c.RFC = s.RFC
	c.SaldoTotal = s.SaldoTotal
	c.SaldoVencido = s.SaldoVencido
	c.DiasMaxVencido = s.DiasMaxVencido
	c.LastSyncAt = &now
	c.UpdatedAt = now
}

// Factura is an invoice, unique per (ClienteID, Folio).
type Factura struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organizationId"`
	EmpresaID      string          `json:"empresaId"`
	ClienteID      string          `json:"clienteId"`
	Folio          string          `json:"folio"`
	Fecha          time.Time       `json:"fecha"`
	Vencimiento    time.Time       `json:"vencimiento"`
	Total          decimal.Decimal `json:"total"`
	Saldo          decimal.Decimal `json:"saldo"`
	DiasVencido    int             `json:"diasVencido"`
	Status         FacturaStatus   `json:"status"`
	LastSyncAt     *time.Time      `json:"lastSyncAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (f *Factura) Bucket() AgingBucket { return BucketFor(f.DiasVencido) }

// Contacto belongs to a client and is matched by name during sync.
type Contacto struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	ClienteID      string    `json:"clienteId"`
	Nombre         string    `json:"nombre"`
	Email          string    `json:"email,omitempty"`
	Telefono       string    `json:"telefono,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

var hundred = decimal.NewFromInt(100)

// percentOf returns part/total as a percentage rounded to two places, or zero
// when total is not positive.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// Resumen is the portfolio summary shown on the dashboard.
type Resumen struct {
	TotalCartera         decimal.Decimal `json:"totalCartera"`
	CarteraVigente       decimal.Decimal `json:"carteraVigente"`
	CarteraVencida       decimal.Decimal `json:"carteraVencida"`
	PorcentajeVencido    decimal.Decimal `json:"porcentajeVencido"`
	ClientesConSaldo     int             `json:"clientesConSaldo"`
	FacturasActivas      int             `json:"facturasActivas"`
	UltimaSincronizacion *time.Time      `json:"ultimaSincronizacion,omitempty"`
}

// BuildResumen aggregates client balances into a summary.
func BuildResumen(clientes []Cliente) Resumen {
	r := Resumen{TotalCartera: decimal.Zero, CarteraVencida: decimal.Zero}
	for i := range clientes {
		c := &clientes[i]
		r.TotalCartera = r.TotalCartera.Add(c.SaldoTotal)
		r.CarteraVencida = r.CarteraVencida.Add(c.SaldoVencido)
		r.FacturasActivas += c.FacturasActivas
		if c.SaldoTotal.IsPositive() {
			r.ClientesConSaldo++
		}
		if c.LastSyncAt != nil && (r.UltimaSincronizacion == nil || c.LastSyncAt.After(*r.UltimaSincronizacion)) {
			t := *c.LastSyncAt
			r.UltimaSincronizacion = &t
		}
	}
	r.CarteraVigente = r.TotalCartera.Sub(r.CarteraVencida)
	r.PorcentajeVencido = percentOf(r.CarteraVencida, r.TotalCartera)
	return r
}

type AgingRow struct {
	Rango      AgingBucket     `json:"rango"`
	Label      string          `json:"label"`
	Monto      decimal.Decimal `json:"monto"`
	Facturas   int             `json:"facturas"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
}

// AgingReport always contains one row per bucket, in AgingBuckets order.
type AgingReport struct {
	Rangos []AgingRow      `json:"rangos"`
	Total  decimal.Decimal `json:"total"`
}

// BuildAging buckets the outstanding balance of active invoices.
func BuildAging(facturas []Factura) AgingReport {
	idx := make(map[AgingBucket]int, len(AgingBuckets))
	rows := make([]AgingRow, len(AgingBuckets))
	for i, b := range AgingBuckets {
		idx[b] = i
		rows[i] = AgingRow{Rango: b, Label: b.Label(), Monto: decimal.Zero, Porcentaje: decimal.Zero}
	}

	total := decimal.Zero
	for i := range facturas {
		f := &facturas[i]
		if !f.Status.IsActive() || !f.Saldo.IsPositive() {
			continue
		}
		row := &rows[idx[f.Bucket()]]
		row.Monto = row.Monto.Add(f.Saldo)
		row.Facturas++
		total = total.Add(f.Saldo)
	}
	for i := range rows {
		rows[i].Porcentaje = percentOf(rows[i].Monto, total)
	}
	return AgingReport{Rangos: rows, Total: total}
}

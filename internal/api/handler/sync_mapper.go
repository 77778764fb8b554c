package handler

import (
	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

// --- Request → Service input ---

func toSyncInput(req syncCarteraRequest) ports.SyncCarteraInput {
	in := ports.SyncCarteraInput{
		EmpresaID: req.EmpresaID,
		SyncType:  req.SyncType,
		Timestamp: req.Timestamp.Time,
		Checksum:  req.Checksum,
		Resumen: domain.ReportedResumen{
			TotalCartera:     req.Data.Resumen.TotalCartera,
			CarteraVigente:   req.Data.Resumen.CarteraVigente,
			CarteraVencida:   req.Data.Resumen.CarteraVencida,
			ClientesConSaldo: req.Data.Resumen.ClientesConSaldo,
			FacturasActivas:  req.Data.Resumen.FacturasActivas,
		},
		Clientes: make([]ports.ClienteSyncInput, 0, len(req.Data.Clientes)),
	}
	for _, c := range req.Data.Clientes {
		in.Clientes = append(in.Clientes, toClienteSyncInput(c))
	}
	return in
}

// toClienteSyncInput keeps nil child slices nil: an absent list leaves the
// stored children untouched, an empty one is still an explicit list.
func toClienteSyncInput(c clienteSyncRequest) ports.ClienteSyncInput {
	out := ports.ClienteSyncInput{
		Operation:      c.Operation,
		Clave:          c.Clave,
		Nombre:         c.Nombre,
		RFC:            c.RFC,
		SaldoTotal:     c.SaldoTotal,
		SaldoVencido:   c.SaldoVencido,
		DiasMaxVencido: c.DiasMaxVencido,
	}
	if c.Facturas != nil {
		out.Facturas = make([]ports.FacturaSyncInput, 0, len(c.Facturas))
		for _, f := range c.Facturas {
			out.Facturas = append(out.Facturas, ports.FacturaSyncInput{
				Operation:   f.Operation,
				Folio:       f.Folio,
				Fecha:       f.Fecha.Time,
				Vencimiento: f.Vencimiento.Time,
				Total:       f.Total,
				Saldo:       f.Saldo,
				DiasVencido: f.DiasVencido,
			})
		}
	}
	if c.Contactos != nil {
		out.Contactos = make([]ports.ContactoSyncInput, 0, len(c.Contactos))
		for _, ct := range c.Contactos {
			out.Contactos = append(out.Contactos, ports.ContactoSyncInput{
				Nombre:   ct.Nombre,
				Email:    ct.Email,
				Telefono: ct.Telefono,
			})
		}
	}
	return out
}

// --- Service result → HTTP response ---

func toSyncResponse(r *ports.SyncResult) syncCarteraResponse {
	return syncCarteraResponse{
		Success:     r.Success,
		SyncID:      r.SyncID,
		ProcessedAt: r.ProcessedAt.UTC(),
		Stats:       r.Stats,
	}
}

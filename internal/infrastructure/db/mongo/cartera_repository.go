package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/core/ports"
)

const (
	collectionClientes  = "clientes"
	collectionFacturas  = "facturas"
	collectionContactos = "contactos"
	collectionSyncRuns  = "sync_runs"
)

// scope filters by organization and, when set, by empresa.
func scope(organizationID, empresaID string) bson.M {
	f := bson.M{"organization_id": organizationID}
	if empresaID != "" {
		f["empresa_id"] = empresaID
	}
	return f
}

// --- clientes ---

type ClienteRepository struct {
	col *mongo.Collection
}

func NewClienteRepository(db *mongo.Database) *ClienteRepository {
	return &ClienteRepository{col: db.Collection(collectionClientes)}
}

type direccionDoc struct {
	Calle        string `bson:"calle,omitempty"`
	Colonia      string `bson:"colonia,omitempty"`
	Ciudad       string `bson:"ciudad,omitempty"`
	Estado       string `bson:"estado,omitempty"`
	CodigoPostal string `bson:"codigo_postal,omitempty"`
}

type clienteDoc struct {
	ID              string               `bson:"_id"`
	OrganizationID  string               `bson:"organization_id"`
	EmpresaID       string               `bson:"empresa_id"`
	Clave           string               `bson:"clave"`
	Nombre          string               `bson:"nombre"`
	RFC             string               `bson:"rfc,omitempty"`
	Email           string               `bson:"email,omitempty"`
	Telefono        string               `bson:"telefono,omitempty"`
	Direccion       direccionDoc         `bson:"direccion"`
	SaldoTotal      primitive.Decimal128 `bson:"saldo_total"`
	SaldoVencido    primitive.Decimal128 `bson:"saldo_vencido"`
	DiasMaxVencido  int                  `bson:"dias_max_vencido"`
	FacturasActivas int                  `bson:"facturas_activas"`
	LastSyncAt      *time.Time           `bson:"last_sync_at,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

func newClienteDoc(c *domain.Cliente) (clienteDoc, error) {
	total, err := toDecimal128(c.SaldoTotal)
	if err != nil {
		return clienteDoc{}, err
	}
	vencido, err := toDecimal128(c.SaldoVencido)
	if err != nil {
		return clienteDoc{}, err
	}
	return clienteDoc{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		EmpresaID:      c.EmpresaID,
		Clave:          c.Clave,
		Nombre:         c.Nombre,
		RFC:            c.RFC,
		Email:          c.Email,
		Telefono:       c.Telefono,
		Direccion: direccionDoc{
			Calle:        c.Direccion.Calle,
			Colonia:      c.Direccion.Colonia,
			Ciudad:       c.Direccion.Ciudad,
			Estado:       c.Direccion.Estado,
			CodigoPostal: c.Direccion.CodigoPostal,
		},
		SaldoTotal:      total,
		SaldoVencido:    vencido,
		DiasMaxVencido:  c.DiasMaxVencido,
		FacturasActivas: c.FacturasActivas,
		LastSyncAt:      utcPtr(c.LastSyncAt),
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       c.UpdatedAt.UTC(),
	}, nil
}

func (d clienteDoc) toDomain() domain.Cliente {
	return domain.Cliente{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		EmpresaID:      d.EmpresaID,
		Clave:          d.Clave,
		Nombre:         d.Nombre,
		RFC:            d.RFC,
		Email:          d.Email,
		Telefono:       d.Telefono,
		Direccion: domain.Direccion{
			Calle:        d.Direccion.Calle,
			Colonia:      d.Direccion.Colonia,
			Ciudad:       d.Direccion.Ciudad,
			Estado:       d.Direccion.Estado,
			CodigoPostal: d.Direccion.CodigoPostal,
		},
		SaldoTotal:      fromDecimal128(d.SaldoTotal),
		SaldoVencido:    fromDecimal128(d.SaldoVencido),
		DiasMaxVencido:  d.DiasMaxVencido,
		FacturasActivas: d.FacturasActivas,
		LastSyncAt:      d.LastSyncAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *ClienteRepository) Insert(ctx context.Context, c *domain.Cliente) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newClienteDoc(c)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert cliente: %w", mapError(err, nil))
	}
	return nil
}

func (r *ClienteRepository) Update(ctx context.Context, c *domain.Cliente) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newClienteDoc(c)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID, "organization_id": c.OrganizationID}, doc)
	if err != nil {
		return fmt.Errorf("update cliente: %w", mapError(err, nil))
	}
	if res.MatchedCount == 0 {
		return domain.ErrClienteNotFound
	}
	return nil
}

func (r *ClienteRepository) FindByClave(ctx context.Context, organizationID, clave string) (*domain.Cliente, error) {
	return r.findOne(ctx, bson.M{"organization_id": organizationID, "clave": clave})
}

// FindByRef resolves ref as an internal id first and a clave second.
func (r *ClienteRepository) FindByRef(ctx context.Context, organizationID, empresaID, ref string) (*domain.Cliente, error) {
	byID := scope(organizationID, empresaID)
	byID["_id"] = ref
	c, err := r.findOne(ctx, byID)
	if err == nil || !isNotFound(err) {
		return c, err
	}
	byClave := scope(organizationID, empresaID)
	byClave["clave"] = ref
	return r.findOne(ctx, byClave)
}

func (r *ClienteRepository) findOne(ctx context.Context, filter bson.M) (*domain.Cliente, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clienteDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrClienteNotFound)
	}
	c := doc.toDomain()
	return &c, nil
}

var clienteSortFields = map[string]string{
	"nombre":       "nombre",
	"clave":        "clave",
	"saldoTotal":   "saldo_total",
	"saldoVencido": "saldo_vencido",
}

func (r *ClienteRepository) List(ctx context.Context, f ports.ClienteFilter) ([]domain.Cliente, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scope(f.OrganizationID, f.EmpresaID)
	if f.ConSaldo {
		filter["saldo_total"] = bson.M{"$gt": primitive.NewDecimal128(0, 0)}
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"nombre": pattern}, bson.M{"clave": pattern}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count clientes: %w", mapError(err, nil))
	}

	field, ok := clienteSortFields[f.OrderBy]
	if !ok {
		field = "saldo_vencido"
	}
	dir := 1
	if f.Descending {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.PageSize)).
		SetLimit(int64(f.PageSize))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list clientes: %w", mapError(err, nil))
	}
	var docs []clienteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode clientes: %w", mapError(err, nil))
	}
	out := make([]domain.Cliente, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, total, nil
}

func (r *ClienteRepository) ListAll(ctx context.Context, organizationID, empresaID string) ([]domain.Cliente, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, scope(organizationID, empresaID))
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", mapError(err, nil))
	}
	var docs []clienteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clientes: %w", mapError(err, nil))
	}
	out := make([]domain.Cliente, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// --- facturas ---

type FacturaRepository struct {
	col *mongo.Collection
}

func NewFacturaRepository(db *mongo.Database) *FacturaRepository {
	return &FacturaRepository{col: db.Collection(collectionFacturas)}
}

type facturaDoc struct {
	ID             string               `bson:"_id"`
	OrganizationID string               `bson:"organization_id"`
	EmpresaID      string               `bson:"empresa_id"`
	ClienteID      string               `bson:"cliente_id"`
	Folio          string               `bson:"folio"`
	Fecha          time.Time            `bson:"fecha"`
	Vencimiento    time.Time            `bson:"vencimiento"`
	Total          primitive.Decimal128 `bson:"total"`
	Saldo          primitive.Decimal128 `bson:"saldo"`
	DiasVencido    int                  `bson:"dias_vencido"`
	Status         string               `bson:"status"`
	LastSyncAt     *time.Time           `bson:"last_sync_at,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func newFacturaDoc(f *domain.Factura) (facturaDoc, error) {
	total, err := toDecimal128(f.Total)
	if err != nil {
		return facturaDoc{}, err
	}
	saldo, err := toDecimal128(f.Saldo)
	if err != nil {
		return facturaDoc{}, err
	}
	return facturaDoc{
		ID:             f.ID,
		OrganizationID: f.OrganizationID,
		EmpresaID:      f.EmpresaID,
		ClienteID:      f.ClienteID,
		Folio:          f.Folio,
		Fecha:          f.Fecha.UTC(),
		Vencimiento:    f.Vencimiento.UTC(),
		Total:          total,
		Saldo:          saldo,
		DiasVencido:    f.DiasVencido,
		Status:         string(f.Status),
		LastSyncAt:     utcPtr(f.LastSyncAt),
		CreatedAt:      f.CreatedAt.UTC(),
		UpdatedAt:      f.UpdatedAt.UTC(),
	}, nil
}

func (d facturaDoc) toDomain() domain.Factura {
	return domain.Factura{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		EmpresaID:      d.EmpresaID,
		ClienteID:      d.ClienteID,
		Folio:          d.Folio,
		Fecha:          d.Fecha,
		Vencimiento:    d.Vencimiento,
		Total:          fromDecimal128(d.Total),
		Saldo:          fromDecimal128(d.Saldo),
		DiasVencido:    d.DiasVencido,
		Status:         domain.FacturaStatus(d.Status),
		LastSyncAt:     d.LastSyncAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *FacturaRepository) Insert(ctx context.Context, f *domain.Factura) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newFacturaDoc(f)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert factura: %w", mapError(err, nil))
	}
	return nil
}

func (r *FacturaRepository) Update(ctx context.Context, f *domain.Factura) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newFacturaDoc(f)
	if err != nil {
		return err
	}
	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": f.ID, "organization_id": f.OrganizationID}, doc); err != nil {
		return fmt.Errorf("update factura: %w", mapError(err, nil))
	}
	return nil
}

func (r *FacturaRepository) ListByCliente(ctx context.Context, organizationID, clienteID string) ([]domain.Factura, error) {
	return r.list(ctx, bson.M{"organization_id": organizationID, "cliente_id": clienteID},
		options.Find().SetSort(bson.D{{Key: "vencimiento", Value: 1}, {Key: "folio", Value: 1}}))
}

// ListOpen returns invoices whose status is neither pagada nor cancelada.
func (r *FacturaRepository) ListOpen(ctx context.Context, organizationID, empresaID string) ([]domain.Factura, error) {
	filter := scope(organizationID, empresaID)
	filter["status"] = bson.M{"$nin": bson.A{string(domain.FacturaPagada), string(domain.FacturaCancelada)}}
	return r.list(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1, "organization_id": 1, "empresa_id": 1, "cliente_id": 1, "folio": 1, "saldo": 1, "dias_vencido": 1, "status": 1}))
}

func (r *FacturaRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Factura, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", mapError(err, nil))
	}
	var docs []facturaDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode facturas: %w", mapError(err, nil))
	}
	out := make([]domain.Factura, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// --- contactos ---

type ContactoRepository struct {
	col *mongo.Collection
}

func NewContactoRepository(db *mongo.Database) *ContactoRepository {
	return &ContactoRepository{col: db.Collection(collectionContactos)}
}

type contactoDoc struct {
	ID             string    `bson:"_id"`
	OrganizationID string    `bson:"organization_id"`
	ClienteID      string    `bson:"cliente_id"`
	Nombre         string    `bson:"nombre"`
	Email          string    `bson:"email,omitempty"`
	Telefono       string    `bson:"telefono,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func newContactoDoc(c *domain.Contacto) contactoDoc {
	return contactoDoc{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		ClienteID:      c.ClienteID,
		Nombre:         c.Nombre,
		Email:          c.Email,
		Telefono:       c.Telefono,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
}

func (r *ContactoRepository) Insert(ctx context.Context, c *domain.Contacto) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newContactoDoc(c)); err != nil {
		return fmt.Errorf("insert contacto: %w", mapError(err, nil))
	}
	return nil
}

func (r *ContactoRepository) Update(ctx context.Context, c *domain.Contacto) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID, "organization_id": c.OrganizationID}, newContactoDoc(c)); err != nil {
		return fmt.Errorf("update contacto: %w", mapError(err, nil))
	}
	return nil
}

func (r *ContactoRepository) ListByCliente(ctx context.Context, organizationID, clienteID string) ([]domain.Contacto, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"organization_id": organizationID, "cliente_id": clienteID},
		options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list contactos: %w", mapError(err, nil))
	}
	var docs []contactoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contactos: %w", mapError(err, nil))
	}
	out := make([]domain.Contacto, len(docs))
	for i, d := range docs {
		out[i] = domain.Contacto{
			ID:             d.ID,
			OrganizationID: d.OrganizationID,
			ClienteID:      d.ClienteID,
			Nombre:         d.Nombre,
			Email:          d.Email,
			Telefono:       d.Telefono,
			CreatedAt:      d.CreatedAt,
			UpdatedAt:      d.UpdatedAt,
		}
	}
	return out, nil
}

// --- sync runs ---

type SyncRunRepository struct {
	col *mongo.Collection
}

func NewSyncRunRepository(db *mongo.Database) *SyncRunRepository {
	return &SyncRunRepository{col: db.Collection(collectionSyncRuns)}
}

func (r *SyncRunRepository) Insert(ctx context.Context, run *domain.SyncRun) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := toDecimal128(run.Reported.TotalCartera)
	if err != nil {
		return err
	}
	vigente, err := toDecimal128(run.Reported.CarteraVigente)
	if err != nil {
		return err
	}
	vencida, err := toDecimal128(run.Reported.CarteraVencida)
	if err != nil {
		return err
	}

	doc := bson.M{
		"_id":             run.ID,
		"organization_id": run.OrganizationID,
		"connector_id":    run.ConnectorID,
		"empresa_id":      run.EmpresaID,
		"sync_type":       run.SyncType,
		"checksum":        run.Checksum,
		"source_time":     run.SourceTime.UTC(),
		"reported": bson.M{
			"total_cartera":      total,
			"cartera_vigente":    vigente,
			"cartera_vencida":    vencida,
			"clientes_con_saldo": run.Reported.ClientesConSaldo,
			"facturas_activas":   run.Reported.FacturasActivas,
		},
		"stats": bson.M{
			"clientes_actualizados": run.Stats.ClientesActualizados,
			"facturas_actualizadas": run.Stats.FacturasActualizadas,
			"nuevos":                run.Stats.Nuevos,
			"modificados":           run.Stats.Modificados,
			"sin_cambios":           run.Stats.SinCambios,
		},
		"processed_at": run.ProcessedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sync run: %w", mapError(err, nil))
	}
	return nil
}

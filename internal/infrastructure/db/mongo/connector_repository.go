package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

const (
	collectionConnectors = "connectors"
	collectionLinkCodes  = "link_codes"
)

type ConnectorRepository struct {
	col *mongo.Collection
}

func NewConnectorRepository(db *mongo.Database) *ConnectorRepository {
	return &ConnectorRepository{col: db.Collection(collectionConnectors)}
}

type empresaDoc struct {
	ID        string `bson:"id"`
	Name      string `bson:"nombre"`
	BaseDatos string `bson:"base_datos,omitempty"`
}

type heartbeatDoc struct {
	Status         string    `bson:"status"`
	Uptime         int64     `bson:"uptime"`
	MemoryUsageMB  float64   `bson:"memory_usage_mb"`
	LastSyncStatus string    `bson:"last_sync_status,omitempty"`
	EmpresasOnline []string  `bson:"empresas_online,omitempty"`
	ReceivedAt     time.Time `bson:"received_at"`
}

type connectorDoc struct {
	ID                 string        `bson:"_id"`
	OrganizationID     string        `bson:"organization_id"`
	Name               string        `bson:"name"`
	Type               string        `bson:"type"`
	Version            string        `bson:"version"`
	Status             string        `bson:"status"`
	MachineFingerprint string        `bson:"machine_fingerprint"`
	Empresas           []empresaDoc  `bson:"empresas"`
	LastHeartbeat      *time.Time    `bson:"last_heartbeat,omitempty"`
	LastHeartbeatData  *heartbeatDoc `bson:"last_heartbeat_data,omitempty"`
	LastSyncAt         *time.Time    `bson:"last_sync_at,omitempty"`
	CreatedAt          time.Time     `bson:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at"`
}

func (d connectorDoc) toDomain() domain.Connector {
	empresas := make([]domain.Empresa, len(d.Empresas))
	for i, e := range d.Empresas {
		empresas[i] = domain.Empresa{ID: e.ID, Name: e.Name, BaseDatos: e.BaseDatos}
	}
	return domain.Connector{
		ID:                 d.ID,
		OrganizationID:     d.OrganizationID,
		Name:               d.Name,
		Type:               domain.ConnectorType(d.Type),
		Version:            d.Version,
		Status:             domain.ConnectorStatus(d.Status),
		MachineFingerprint: d.MachineFingerprint,
		Empresas:           empresas,
		LastHeartbeat:      d.LastHeartbeat,
		LastSyncAt:         d.LastSyncAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (r *ConnectorRepository) Create(ctx context.Context, c *domain.Connector) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	empresas := make([]empresaDoc, len(c.Empresas))
	for i, e := range c.Empresas {
		empresas[i] = empresaDoc{ID: e.ID, Name: e.Name, BaseDatos: e.BaseDatos}
	}
	doc := connectorDoc{
		ID:                 c.ID,
		OrganizationID:     c.OrganizationID,
		Name:               c.Name,
		Type:               string(c.Type),
		Version:            c.Version,
		Status:             string(c.Status),
		MachineFingerprint: c.MachineFingerprint,
		Empresas:           empresas,
		LastHeartbeat:      utcPtr(c.LastHeartbeat),
		LastSyncAt:         utcPtr(c.LastSyncAt),
		CreatedAt:          c.CreatedAt.UTC(),
		UpdatedAt:          c.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert connector: %w", mapError(err, nil))
	}
	return nil
}

func (r *ConnectorRepository) FindByID(ctx context.Context, organizationID, id string) (*domain.Connector, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc connectorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "organization_id": organizationID}).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrConnectorNotFound)
	}
	c := doc.toDomain()
	return &c, nil
}

func (r *ConnectorRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Connector, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"organization_id": organizationID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list connectors: %w", mapError(err, nil))
	}
	var docs []connectorDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode connectors: %w", mapError(err, nil))
	}
	out := make([]domain.Connector, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *ConnectorRepository) RecordHeartbeat(ctx context.Context, organizationID, id string, status domain.ConnectorStatus, hb domain.Heartbeat) error {
	at := hb.ReceivedAt.UTC()
	return r.update(ctx, organizationID, id, bson.M{
		"status":         string(status),
		"last_heartbeat": at,
		"last_heartbeat_data": heartbeatDoc{
			Status:         hb.Status,
			Uptime:         hb.Uptime,
			MemoryUsageMB:  hb.MemoryUsageMB,
			LastSyncStatus: hb.LastSyncStatus,
			EmpresasOnline: hb.EmpresasOnline,
			ReceivedAt:     at,
		},
		"updated_at": at,
	})
}

func (r *ConnectorRepository) TouchSync(ctx context.Context, organizationID, id string, at time.Time) error {
	return r.update(ctx, organizationID, id, bson.M{"last_sync_at": at.UTC(), "updated_at": at.UTC()})
}

func (r *ConnectorRepository) update(ctx context.Context, organizationID, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "organization_id": organizationID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update connector: %w", mapError(err, nil))
	}
	if res.MatchedCount == 0 {
		return domain.ErrConnectorNotFound
	}
	return nil
}

type LinkCodeRepository struct {
	col *mongo.Collection
}

func NewLinkCodeRepository(db *mongo.Database) *LinkCodeRepository {
	return &LinkCodeRepository{col: db.Collection(collectionLinkCodes)}
}

type linkCodeDoc struct {
	ID                 string     `bson:"_id"`
	Code               string     `bson:"code"`
	OrganizationID     string     `bson:"organization_id"`
	CreatedBy          string     `bson:"created_by"`
	MachineFingerprint string     `bson:"machine_fingerprint"`
	ConnectorName      string     `bson:"connector_name,omitempty"`
	ConnectorVersion   string     `bson:"connector_version,omitempty"`
	ExpiresAt          time.Time  `bson:"expires_at"`
	Used               bool       `bson:"used"`
	UsedAt             *time.Time `bson:"used_at,omitempty"`
	CreatedAt          time.Time  `bson:"created_at"`
}

func (r *LinkCodeRepository) Create(ctx context.Context, lc *domain.LinkCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := linkCodeDoc{
		ID:                 lc.ID,
		Code:               lc.Code,
		OrganizationID:     lc.OrganizationID,
		CreatedBy:          lc.CreatedBy,
		MachineFingerprint: lc.MachineFingerprint,
		ConnectorName:      lc.ConnectorName,
		ConnectorVersion:   lc.ConnectorVersion,
		ExpiresAt:          lc.ExpiresAt.UTC(),
		Used:               lc.Used,
		CreatedAt:          lc.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrLinkCodeTaken
		}
		return fmt.Errorf("insert link code: %w", mapError(err, nil))
	}
	return nil
}

// Redeem flips used in the same operation that matches the code, so a code
// can be redeemed once even under concurrent registrations.
func (r *LinkCodeRepository) Redeem(ctx context.Context, code, fingerprint string, now time.Time) (*domain.LinkCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"code":                code,
		"machine_fingerprint": fingerprint,
		"used":                false,
		"expires_at":          bson.M{"$gt": now.UTC()},
	}
	update := bson.M{"$set": bson.M{"used": true, "used_at": now.UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc linkCodeDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrLinkCodeInvalid)
	}
	return &domain.LinkCode{
		ID:                 doc.ID,
		Code:               doc.Code,
		OrganizationID:     doc.OrganizationID,
		CreatedBy:          doc.CreatedBy,
		MachineFingerprint: doc.MachineFingerprint,
		ConnectorName:      doc.ConnectorName,
		ConnectorVersion:   doc.ConnectorVersion,
		ExpiresAt:          doc.ExpiresAt,
		Used:               doc.Used,
		UsedAt:             doc.UsedAt,
		CreatedAt:          doc.CreatedAt,
	}, nil
}

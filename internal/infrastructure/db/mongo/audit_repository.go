package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
	"github.com/cobranzacloud/cobranza-cloud/internal/pkg/ids"
)

const collectionAuditEvents = "audit_events"

// AuditRepository appends to the audit_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditEvents)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":         ids.New(),
		"action":      string(event.Action),
		"occurred_at": event.OccurredAt.UTC(),
	}
	if event.OrganizationID != "" {
		doc["organization_id"] = event.OrganizationID
	}
	if event.ActorID != "" {
		doc["actor"] = bson.M{"kind": string(event.ActorKind), "id": event.ActorID}
	}
	if event.IP != "" {
		doc["ip"] = event.IP
	}
	if len(event.Details) > 0 {
		doc["details"] = event.Details
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", mapError(err, nil))
	}
	return nil
}

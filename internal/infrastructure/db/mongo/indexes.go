package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexSpecs lists the indexes every collection needs. Unique indexes back
// the natural keys the services rely on.
var indexSpecs = map[string][]mongo.IndexModel{
	collectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}}},
	},
	collectionRefreshTokens: {
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_kind", Value: 1}, {Key: "owner_id", Value: 1}, {Key: "revoked_at", Value: 1}}},
	},
	collectionConnectors: {
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: 1}}},
	},
	collectionLinkCodes: {
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Expired codes are dropped a day after expiry.
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(86400)},
	},
	collectionClientes: {
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "clave", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "empresa_id", Value: 1}, {Key: "saldo_vencido", Value: -1}}},
	},
	collectionFacturas: {
		{Keys: bson.D{{Key: "cliente_id", Value: 1}, {Key: "folio", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "empresa_id", Value: 1}, {Key: "status", Value: 1}}},
	},
	collectionContactos: {
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "cliente_id", Value: 1}, {Key: "nombre", Value: 1}}},
	},
	collectionSyncRuns: {
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "processed_at", Value: -1}}},
	},
	collectionAuditEvents: {
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	},
}

// EnsureIndexes creates every index. It is idempotent and runs from the
// migrate command and on server start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for coll, models := range indexSpecs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

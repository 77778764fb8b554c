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

const collectionRefreshTokens = "refresh_tokens"

// RefreshTokenRepository keeps every refresh token ever issued. Revoked tokens
// stay so reuse of an ancestor can be recognised.
type RefreshTokenRepository struct {
	col *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{col: db.Collection(collectionRefreshTokens)}
}

type refreshTokenDoc struct {
	ID              string     `bson:"_id"`
	Token           string     `bson:"token"`
	OwnerKind       string     `bson:"owner_kind"`
	OwnerID         string     `bson:"owner_id"`
	OrganizationID  string     `bson:"organization_id"`
	ExpiresAt       time.Time  `bson:"expires_at"`
	CreatedAt       time.Time  `bson:"created_at"`
	CreatedByIP     string     `bson:"created_by_ip,omitempty"`
	RevokedAt       *time.Time `bson:"revoked_at"`
	RevokedByIP     string     `bson:"revoked_by_ip,omitempty"`
	ReplacedByToken string     `bson:"replaced_by_token,omitempty"`
	ReasonRevoked   string     `bson:"reason_revoked,omitempty"`
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := refreshTokenDoc{
		ID:             t.ID,
		Token:          t.Token,
		OwnerKind:      string(t.Owner.Kind),
		OwnerID:        t.Owner.ID,
		OrganizationID: t.OrganizationID,
		ExpiresAt:      t.ExpiresAt.UTC(),
		CreatedAt:      t.CreatedAt.UTC(),
		CreatedByIP:    t.CreatedByIP,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert refresh token: %w", mapError(err, nil))
	}
	return nil
}

func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc refreshTokenDoc
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrRefreshTokenNotFound)
	}
	return &domain.RefreshToken{
		ID:              doc.ID,
		Token:           doc.Token,
		Owner:           domain.TokenOwner{Kind: domain.OwnerKind(doc.OwnerKind), ID: doc.OwnerID},
		OrganizationID:  doc.OrganizationID,
		ExpiresAt:       doc.ExpiresAt,
		CreatedAt:       doc.CreatedAt,
		CreatedByIP:     doc.CreatedByIP,
		RevokedAt:       doc.RevokedAt,
		RevokedByIP:     doc.RevokedByIP,
		ReplacedByToken: doc.ReplacedByToken,
		ReasonRevoked:   doc.ReasonRevoked,
	}, nil
}

func revocationUpdate(rev domain.Revocation) bson.M {
	set := bson.M{
		"revoked_at":     rev.At.UTC(),
		"reason_revoked": rev.Reason,
	}
	if rev.ByIP != "" {
		set["revoked_by_ip"] = rev.ByIP
	}
	if rev.ReplacedBy != "" {
		set["replaced_by_token"] = rev.ReplacedBy
	}
	return bson.M{"$set": set}
}

// Revoke only matches an unrevoked token, so of two concurrent redemptions
// exactly one sees MatchedCount == 1.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, rev domain.Revocation) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"token": token, "revoked_at": nil}, revocationUpdate(rev))
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", mapError(err, nil))
	}
	return res.MatchedCount == 1, nil
}

func activeFilter(owner domain.TokenOwner, now time.Time) bson.M {
	return bson.M{
		"owner_kind": string(owner.Kind),
		"owner_id":   owner.ID,
		"revoked_at": nil,
		"expires_at": bson.M{"$gt": now.UTC()},
	}
}

func (r *RefreshTokenRepository) RevokeAllActive(ctx context.Context, owner domain.TokenOwner, rev domain.Revocation) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, activeFilter(owner, rev.At), revocationUpdate(rev))
	if err != nil {
		return 0, fmt.Errorf("revoke token family: %w", mapError(err, nil))
	}
	return res.ModifiedCount, nil
}

// RevokeActiveBeyond keeps the keep most recently created active tokens.
func (r *RefreshTokenRepository) RevokeActiveBeyond(ctx context.Context, owner domain.TokenOwner, keep int, rev domain.Revocation) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, activeFilter(owner, rev.At), opts)
	if err != nil {
		return 0, fmt.Errorf("find surplus sessions: %w", mapError(err, nil))
	}
	var surplus []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &surplus); err != nil {
		return 0, fmt.Errorf("decode surplus sessions: %w", mapError(err, nil))
	}
	if len(surplus) == 0 {
		return 0, nil
	}

	idList := make([]string, len(surplus))
	for i, s := range surplus {
		idList[i] = s.ID
	}
	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": idList}, "revoked_at": nil}, revocationUpdate(rev))
	if err != nil {
		return 0, fmt.Errorf("revoke surplus sessions: %w", mapError(err, nil))
	}
	return res.ModifiedCount, nil
}

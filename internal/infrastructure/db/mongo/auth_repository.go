package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cobranzacloud/cobranza-cloud/internal/core/domain"
)

const (
	collectionUsers         = "users"
	collectionOrganizations = "organizations"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID                  string     `bson:"_id"`
	OrganizationID      string     `bson:"organization_id"`
	Email               string     `bson:"email"`
	Name                string     `bson:"name"`
	PasswordHash        string     `bson:"password_hash"`
	Role                string     `bson:"role"`
	Active              bool       `bson:"active"`
	FailedLoginAttempts int        `bson:"failed_login_attempts"`
	LockoutUntil        *time.Time `bson:"lockout_until"`
	LastLoginAt         *time.Time `bson:"last_login_at"`
	CreatedAt           time.Time  `bson:"created_at"`
	UpdatedAt           time.Time  `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                  d.ID,
		OrganizationID:      d.OrganizationID,
		Email:               d.Email,
		Name:                d.Name,
		PasswordHash:        d.PasswordHash,
		Role:                domain.Role(d.Role),
		Active:              d.Active,
		FailedLoginAttempts: d.FailedLoginAttempts,
		LockoutUntil:        d.LockoutUntil,
		LastLoginAt:         d.LastLoginAt,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:                  u.ID,
		OrganizationID:      u.OrganizationID,
		Email:               u.Email,
		Name:                u.Name,
		PasswordHash:        u.PasswordHash,
		Role:                string(u.Role),
		Active:              u.Active,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockoutUntil:        utcPtr(u.LockoutUntil),
		LastLoginAt:         utcPtr(u.LastLoginAt),
		CreatedAt:           u.CreatedAt.UTC(),
		UpdatedAt:           u.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", mapError(err, nil))
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID only matches users of organizationID.
func (r *UserRepository) FindByID(ctx context.Context, organizationID, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "organization_id": organizationID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrUserNotFound)
	}
	return doc.toDomain(), nil
}

// UpdateLoginState writes the lockout counters and last-login timestamp.
func (r *UserRepository) UpdateLoginState(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": u.ID, "organization_id": u.OrganizationID},
		bson.M{"$set": bson.M{
			"failed_login_attempts": u.FailedLoginAttempts,
			"lockout_until":         utcPtr(u.LockoutUntil),
			"last_login_at":         utcPtr(u.LastLoginAt),
			"updated_at":            u.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update login state: %w", mapError(err, nil))
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

type OrganizationRepository struct {
	col *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{col: db.Collection(collectionOrganizations)}
}

type organizationDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	RFC       string    `bson:"rfc,omitempty"`
	Plan      string    `bson:"plan"`
	Timezone  string    `bson:"timezone"`
	Currency  string    `bson:"currency"`
	Locale    string    `bson:"locale"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *OrganizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := organizationDoc{
		ID:        o.ID,
		Name:      o.Name,
		RFC:       o.RFC,
		Plan:      string(o.Plan),
		Timezone:  o.Settings.Timezone,
		Currency:  o.Settings.Currency,
		Locale:    o.Settings.Locale,
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert organization: %w", mapError(err, nil))
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc organizationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapError(err, domain.ErrOrganizationNotFound)
	}
	return &domain.Organization{
		ID:   doc.ID,
		Name: doc.Name,
		RFC:  doc.RFC,
		Plan: domain.Plan(doc.Plan),
		Settings: domain.OrganizationSettings{
			Timezone: doc.Timezone,
			Currency: doc.Currency,
			Locale:   doc.Locale,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

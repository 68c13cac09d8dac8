package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                 string    `bson:"_id"`
	Role               string    `bson:"role"`
	Phone              string    `bson:"phone"`
	Name               string    `bson:"name"`
	DocumentNumber     string    `bson:"document_number,omitempty"`
	BirthDate          string    `bson:"birth_date,omitempty"`
	AvatarRef          string    `bson:"avatar_ref,omitempty"`
	IdentityDocRef     string    `bson:"identity_doc_ref,omitempty"`
	IdentityDocExpiry  string    `bson:"identity_doc_expiry,omitempty"`
	LicenseNumber      string    `bson:"license_number,omitempty"`
	LicenseDocRef      string    `bson:"license_doc_ref,omitempty"`
	LicenseExpiry      string    `bson:"license_expiry,omitempty"`
	Specialty          string    `bson:"specialty,omitempty"`
	VerificationStatus string    `bson:"verification_status"`
	CreatedAt          time.Time `bson:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at"`
	Version            int64     `bson:"version"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:                 u.ID,
		Role:               string(u.Role),
		Phone:              u.Phone,
		Name:               u.Name,
		DocumentNumber:     u.DocumentNumber,
		BirthDate:          u.BirthDate,
		AvatarRef:          u.AvatarRef,
		IdentityDocRef:     u.IdentityDocRef,
		IdentityDocExpiry:  u.IdentityDocExpiry,
		LicenseNumber:      u.LicenseNumber,
		LicenseDocRef:      u.LicenseDocRef,
		LicenseExpiry:      u.LicenseExpiry,
		Specialty:          u.Specialty,
		VerificationStatus: string(u.VerificationStatus),
		CreatedAt:          u.CreatedAt.UTC(),
		UpdatedAt:          u.UpdatedAt.UTC(),
		Version:            u.Version,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                 m.ID,
		Role:               domain.Role(m.Role),
		Phone:              m.Phone,
		Name:               m.Name,
		DocumentNumber:     m.DocumentNumber,
		BirthDate:          m.BirthDate,
		AvatarRef:          m.AvatarRef,
		IdentityDocRef:     m.IdentityDocRef,
		IdentityDocExpiry:  m.IdentityDocExpiry,
		LicenseNumber:      m.LicenseNumber,
		LicenseDocRef:      m.LicenseDocRef,
		LicenseExpiry:      m.LicenseExpiry,
		Specialty:          m.Specialty,
		VerificationStatus: domain.VerificationStatus(m.VerificationStatus),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		Version:            m.Version,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(u)
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.Version = 1
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the document only when the stored version still matches.
func (r *UserRepository) Update(ctx context.Context, u *domain.User, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(u)
	doc.Version = expectedVersion + 1
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": u.ID, "version": expectedVersion}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.findOne(ctx, bson.M{"_id": u.ID}); err != nil {
			return err
		}
		return domain.ErrConcurrentModification
	}
	u.Version = doc.Version
	return nil
}

// EnsureIndexes creates the unique phone index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

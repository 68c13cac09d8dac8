package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

const collectionCases = "cases"

// CaseRepository stores each case as one document with its timeline embedded,
// so a state change and its event land in a single atomic document write.
type CaseRepository struct {
	col *mongo.Collection
}

func NewCaseRepository(db *mongo.Database) *CaseRepository {
	return &CaseRepository{col: db.Collection(collectionCases)}
}

type mongoFine struct {
	ID           string `bson:"id"`
	Points       int    `bson:"points"`
	EvidenceRef  string `bson:"evidence_ref"`
	DocumentName string `bson:"document_name,omitempty"`
}

type mongoEvent struct {
	ID             string    `bson:"id"`
	Seq            int64     `bson:"seq"`
	Timestamp      time.Time `bson:"timestamp"`
	Title          string    `bson:"title"`
	Description    string    `bson:"description,omitempty"`
	AuthorRole     string    `bson:"author_role"`
	AuthorName     string    `bson:"author_name"`
	Kind           string    `bson:"kind"`
	AttachmentRefs []string  `bson:"attachment_refs,omitempty"`
}

type mongoCase struct {
	ID             string       `bson:"_id"`
	ReferenceCode  string       `bson:"reference_code"`
	ClientID       string       `bson:"client_id"`
	ClientName     string       `bson:"client_name,omitempty"`
	ProfessionalID string       `bson:"professional_id,omitempty"`
	Type           string       `bson:"type"`
	Fines          []mongoFine  `bson:"fines"`
	TotalPoints    int          `bson:"total_points"`
	Fee            string       `bson:"fee"`
	Status         string       `bson:"status"`
	Narrative      string       `bson:"narrative,omitempty"`
	RegistryNumber string       `bson:"registry_number,omitempty"`
	Organ          string       `bson:"organ,omitempty"`
	LastNote       string       `bson:"last_note,omitempty"`
	CreatedAt      time.Time    `bson:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at"`
	Version        int64        `bson:"version"`
	Timeline       []mongoEvent `bson:"timeline,omitempty"`
}

func toMongoFines(fines []domain.Fine) []mongoFine {
	out := make([]mongoFine, len(fines))
	for i, f := range fines {
		out[i] = mongoFine(f)
	}
	return out
}

func toMongoEvent(ev *domain.TimelineEvent) mongoEvent {
	return mongoEvent{
		ID:             ev.ID,
		Seq:            ev.Seq,
		Timestamp:      ev.Timestamp.UTC(),
		Title:          ev.Title,
		Description:    ev.Description,
		AuthorRole:     string(ev.AuthorRole),
		AuthorName:     ev.AuthorName,
		Kind:           string(ev.Kind),
		AttachmentRefs: ev.AttachmentRefs,
	}
}

func newMongoCase(c *domain.Case, version int64, first *domain.TimelineEvent) mongoCase {
	return mongoCase{
		ID:             c.ID,
		ReferenceCode:  c.ReferenceCode,
		ClientID:       c.ClientID,
		ClientName:     c.ClientName,
		ProfessionalID: c.ProfessionalID,
		Type:           string(c.Type),
		Fines:          toMongoFines(c.Fines),
		TotalPoints:    c.TotalPoints,
		Fee:            c.Fee.String(),
		Status:         string(c.Status),
		Narrative:      c.Narrative,
		RegistryNumber: c.RegistryNumber,
		Organ:          c.Organ,
		LastNote:       c.LastNote,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
		Version:        version,
		Timeline:       []mongoEvent{toMongoEvent(first)},
	}
}

func (e mongoEvent) toDomain(caseID string) domain.TimelineEvent {
	return domain.TimelineEvent{
		ID:             e.ID,
		CaseID:         caseID,
		Seq:            e.Seq,
		Timestamp:      e.Timestamp,
		Title:          e.Title,
		Description:    e.Description,
		AuthorRole:     domain.Role(e.AuthorRole),
		AuthorName:     e.AuthorName,
		Kind:           domain.EventKind(e.Kind),
		AttachmentRefs: e.AttachmentRefs,
	}
}

// caseFields is the $set document for every mutable case attribute.
func caseFields(c *domain.Case, version int64) bson.M {
	return bson.M{
		"client_name":     c.ClientName,
		"professional_id": c.ProfessionalID,
		"type":            string(c.Type),
		"fines":           toMongoFines(c.Fines),
		"total_points":    c.TotalPoints,
		"fee":             c.Fee.String(),
		"status":          string(c.Status),
		"narrative":       c.Narrative,
		"registry_number": c.RegistryNumber,
		"organ":           c.Organ,
		"last_note":       c.LastNote,
		"updated_at":      c.UpdatedAt.UTC(),
		"version":         version,
	}
}

func (m mongoCase) toDomain() (*domain.Case, error) {
	fee, err := decimal.NewFromString(m.Fee)
	if err != nil {
		return nil, fmt.Errorf("decode fee of case %s: %w", m.ID, err)
	}
	fines := make([]domain.Fine, len(m.Fines))
	for i, f := range m.Fines {
		fines[i] = domain.Fine(f)
	}
	return &domain.Case{
		ID:             m.ID,
		ReferenceCode:  m.ReferenceCode,
		ClientID:       m.ClientID,
		ClientName:     m.ClientName,
		ProfessionalID: m.ProfessionalID,
		Type:           domain.CaseType(m.Type),
		Fines:          fines,
		TotalPoints:    m.TotalPoints,
		Fee:            fee,
		Status:         domain.CaseStatus(m.Status),
		Narrative:      m.Narrative,
		RegistryNumber: m.RegistryNumber,
		Organ:          m.Organ,
		LastNote:       m.LastNote,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Version:        m.Version,
	}, nil
}

var withoutTimeline = options.FindOne().SetProjection(bson.M{"timeline": 0})

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case, ev *domain.TimelineEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newMongoCase(c, 1, ev)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: case %s already stored", domain.ErrConflict, c.ID)
		}
		return fmt.Errorf("insert case: %w", err)
	}
	c.Version = 1
	return nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id string) (*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoCase
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, withoutTimeline).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}
	return doc.toDomain()
}

func (r *CaseRepository) List(ctx context.Context, f ports.CaseFilter) ([]*domain.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}
	if f.ProfessionalID != "" {
		filter["professional_id"] = f.ProfessionalID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Unassigned {
		filter["professional_id"] = bson.M{"$in": bson.A{"", nil}}
	}

	opts := options.Find().
		SetProjection(bson.M{"timeline": 0}).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoCase
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	out := make([]*domain.Case, 0, len(docs))
	for _, d := range docs {
		c, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Update sets the case fields and pushes ev in one UpdateOne guarded by the
// expected version.
func (r *CaseRepository) Update(ctx context.Context, c *domain.Case, expectedVersion int64, ev *domain.TimelineEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": c.ID, "version": expectedVersion}
	update := bson.M{
		"$set":  caseFields(c, expectedVersion+1),
		"$push": bson.M{"timeline": toMongoEvent(ev)},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": c.ID})
		if err != nil {
			return fmt.Errorf("update case: %w", err)
		}
		if n == 0 {
			return domain.ErrCaseNotFound
		}
		return domain.ErrConcurrentModification
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *CaseRepository) Timeline(ctx context.Context, caseID string) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Timeline []mongoEvent `bson:"timeline"`
	}
	opts := options.FindOne().SetProjection(bson.M{"timeline": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": caseID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("find timeline: %w", err)
	}
	out := make([]domain.TimelineEvent, len(doc.Timeline))
	for i, e := range doc.Timeline {
		out[i] = e.toDomain(caseID)
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes used by List.
func (r *CaseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "professional_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "reference_code", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

type userRecord struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 string    `bun:"id,pk"`
	Role               string    `bun:"role,notnull"`
	Phone              string    `bun:"phone,notnull"`
	Name               string    `bun:"name,notnull"`
	DocumentNumber     string    `bun:"document_number,notnull"`
	BirthDate          string    `bun:"birth_date,notnull"`
	AvatarRef          string    `bun:"avatar_ref,notnull"`
	IdentityDocRef     string    `bun:"identity_doc_ref,notnull"`
	IdentityDocExpiry  string    `bun:"identity_doc_expiry,notnull"`
	LicenseNumber      string    `bun:"license_number,notnull"`
	LicenseDocRef      string    `bun:"license_doc_ref,notnull"`
	LicenseExpiry      string    `bun:"license_expiry,notnull"`
	Specialty          string    `bun:"specialty,notnull"`
	VerificationStatus string    `bun:"verification_status,notnull"`
	CreatedAt          time.Time `bun:"created_at,notnull"`
	UpdatedAt          time.Time `bun:"updated_at,notnull"`
	Version            int64     `bun:"version,notnull"`
}

func newUserRecord(u *domain.User, version int64) *userRecord {
	return &userRecord{
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
		Version:            version,
	}
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:                 r.ID,
		Role:               domain.Role(r.Role),
		Phone:              r.Phone,
		Name:               r.Name,
		DocumentNumber:     r.DocumentNumber,
		BirthDate:          r.BirthDate,
		AvatarRef:          r.AvatarRef,
		IdentityDocRef:     r.IdentityDocRef,
		IdentityDocExpiry:  r.IdentityDocExpiry,
		LicenseNumber:      r.LicenseNumber,
		LicenseDocRef:      r.LicenseDocRef,
		LicenseExpiry:      r.LicenseExpiry,
		Specialty:          r.Specialty,
		VerificationStatus: domain.VerificationStatus(r.VerificationStatus),
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
		Version:            r.Version,
	}
}

type caseRecord struct {
	bun.BaseModel `bun:"table:cases,alias:c"`

	ID             string          `bun:"id,pk"`
	ReferenceCode  string          `bun:"reference_code,notnull,unique"`
	ClientID       string          `bun:"client_id,notnull"`
	ClientName     string          `bun:"client_name,notnull"`
	ProfessionalID string          `bun:"professional_id,notnull"`
	Type           string          `bun:"type,notnull"`
	Fines          []domain.Fine   `bun:"fines,type:jsonb,notnull"`
	TotalPoints    int             `bun:"total_points,notnull"`
	Fee            decimal.Decimal `bun:"fee,type:varchar(32),notnull"`
	Status         string          `bun:"status,notnull"`
	Narrative      string          `bun:"narrative,notnull"`
	RegistryNumber string          `bun:"registry_number,notnull"`
	Organ          string          `bun:"organ,notnull"`
	LastNote       string          `bun:"last_note,notnull"`
	CreatedAt      time.Time       `bun:"created_at,notnull"`
	UpdatedAt      time.Time       `bun:"updated_at,notnull"`
	Version        int64           `bun:"version,notnull"`
}

func newCaseRecord(c *domain.Case, version int64) *caseRecord {
	return &caseRecord{
		ID:             c.ID,
		ReferenceCode:  c.ReferenceCode,
		ClientID:       c.ClientID,
		ClientName:     c.ClientName,
		ProfessionalID: c.ProfessionalID,
		Type:           string(c.Type),
		Fines:          append([]domain.Fine{}, c.Fines...),
		TotalPoints:    c.TotalPoints,
		Fee:            c.Fee,
		Status:         string(c.Status),
		Narrative:      c.Narrative,
		RegistryNumber: c.RegistryNumber,
		Organ:          c.Organ,
		LastNote:       c.LastNote,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
		Version:        version,
	}
}

func (r *caseRecord) toDomain() *domain.Case {
	return &domain.Case{
		ID:             r.ID,
		ReferenceCode:  r.ReferenceCode,
		ClientID:       r.ClientID,
		ClientName:     r.ClientName,
		ProfessionalID: r.ProfessionalID,
		Type:           domain.CaseType(r.Type),
		Fines:          append([]domain.Fine(nil), r.Fines...),
		TotalPoints:    r.TotalPoints,
		Fee:            r.Fee,
		Status:         domain.CaseStatus(r.Status),
		Narrative:      r.Narrative,
		RegistryNumber: r.RegistryNumber,
		Organ:          r.Organ,
		LastNote:       r.LastNote,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
		Version:        r.Version,
	}
}

type eventRecord struct {
	bun.BaseModel `bun:"table:timeline_events,alias:te"`

	ID             string    `bun:"id,pk"`
	CaseID         string    `bun:"case_id,notnull"`
	Seq            int64     `bun:"seq,notnull"`
	Timestamp      time.Time `bun:"timestamp,notnull"`
	Title          string    `bun:"title,notnull"`
	Description    string    `bun:"description,notnull"`
	AuthorRole     string    `bun:"author_role,notnull"`
	AuthorName     string    `bun:"author_name,notnull"`
	Kind           string    `bun:"kind,notnull"`
	AttachmentRefs []string  `bun:"attachment_refs,type:jsonb,notnull"`
}

func newEventRecord(ev *domain.TimelineEvent) *eventRecord {
	refs := ev.AttachmentRefs
	if refs == nil {
		refs = []string{}
	}
	return &eventRecord{
		ID:             ev.ID,
		CaseID:         ev.CaseID,
		Seq:            ev.Seq,
		Timestamp:      ev.Timestamp.UTC(),
		Title:          ev.Title,
		Description:    ev.Description,
		AuthorRole:     string(ev.AuthorRole),
		AuthorName:     ev.AuthorName,
		Kind:           string(ev.Kind),
		AttachmentRefs: refs,
	}
}

func (r *eventRecord) toDomain() domain.TimelineEvent {
	var refs []string
	if len(r.AttachmentRefs) > 0 {
		refs = append(refs, r.AttachmentRefs...)
	}
	return domain.TimelineEvent{
		ID:             r.ID,
		CaseID:         r.CaseID,
		Seq:            r.Seq,
		Timestamp:      r.Timestamp.UTC(),
		Title:          r.Title,
		Description:    r.Description,
		AuthorRole:     domain.Role(r.AuthorRole),
		AuthorName:     r.AuthorName,
		Kind:           domain.EventKind(r.Kind),
		AttachmentRefs: refs,
	}
}

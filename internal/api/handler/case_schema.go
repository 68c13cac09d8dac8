package handler

import "github.com/v-pascoal/radar-hub/internal/core/domain"

type fineRequest struct {
	Points       int    `json:"points"        validate:"gte=0"`
	EvidenceRef  string `json:"evidence_ref"  validate:"max=512"`
	DocumentName string `json:"document_name" validate:"max=200"`
}

type submitCaseRequest struct {
	Type      string        `json:"type"      validate:"required"`
	Fines     []fineRequest `json:"fines"     validate:"dive"`
	Narrative string        `json:"narrative" validate:"max=4000"`
}

// updateCaseRequest leaves nil fields and an absent fine list unchanged.
type updateCaseRequest struct {
	Type      *string       `json:"type"      validate:"omitempty,min=1"`
	Fines     []fineRequest `json:"fines"     validate:"omitempty,min=1,dive"`
	Narrative *string       `json:"narrative" validate:"omitempty,max=4000"`
}

type recordStatusRequest struct {
	Label          string   `json:"label"           validate:"required,max=100"`
	Narrative      string   `json:"narrative"       validate:"max=4000"`
	EvidenceRefs   []string `json:"evidence_refs"   validate:"dive,max=512"`
	RegistryNumber *string  `json:"registry_number" validate:"omitempty,max=64"`
	Organ          *string  `json:"organ"           validate:"omitempty,max=200"`
}

type caseLinks struct {
	Self     string `json:"self"`
	Timeline string `json:"timeline"`
}

type submitCaseResponse struct {
	CaseID        string    `json:"case_id"`
	ReferenceCode string    `json:"reference_code"`
	Status        string    `json:"status"`
	Fee           string    `json:"fee"`
	CreatedAt     string    `json:"created_at"`
	Links         caseLinks `json:"_links"`
}

type caseResponse struct {
	ID             string        `json:"id"`
	ReferenceCode  string        `json:"reference_code"`
	ClientID       string        `json:"client_id"`
	ClientName     string        `json:"client_name,omitempty"`
	ProfessionalID string        `json:"professional_id,omitempty"`
	Type           string        `json:"type"`
	Fines          []domain.Fine `json:"fines"`
	TotalPoints    int           `json:"total_points"`
	Fee            string        `json:"fee"`
	Status         string        `json:"status"`
	Narrative      string        `json:"narrative,omitempty"`
	RegistryNumber string        `json:"registry_number,omitempty"`
	Organ          string        `json:"organ,omitempty"`
	LastNote       string        `json:"last_note,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
	Links          caseLinks     `json:"_links"`
}

type caseListResponse struct {
	Items []caseResponse `json:"items"`
	Count int            `json:"count"`
}

type timelineResponse struct {
	CaseID string                 `json:"case_id"`
	Events []domain.TimelineEvent `json:"events"`
}

type walletResponse struct {
	ProfessionalID string `json:"professional_id"`
	TotalAccepted  string `json:"total_accepted"`
	Retained       string `json:"retained"`
	Receivable     string `json:"receivable"`
	RetainedRate   string `json:"retained_rate"`
	ActiveCount    int    `json:"active_count"`
	FinishedCount  int    `json:"finished_count"`
	TotalCount     int    `json:"total_count"`
}

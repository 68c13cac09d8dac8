package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CaseStatus represents the lifecycle state of a defense case.
type CaseStatus string

const (
	StatusOpen            CaseStatus = "OPEN"
	StatusClaimed         CaseStatus = "CLAIMED"
	StatusProtocolPending CaseStatus = "PROTOCOL_PENDING"
	StatusActive          CaseStatus = "ACTIVE"
	StatusFinished        CaseStatus = "FINISHED"
)

// validTransitions lists the moves recordStatus may perform. OPEN → CLAIMED is
// reserved to Claim and therefore absent.
var validTransitions = map[CaseStatus][]CaseStatus{
	StatusClaimed:         {StatusProtocolPending, StatusActive},
	StatusProtocolPending: {StatusActive, StatusFinished},
	StatusActive:          {StatusFinished},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further lifecycle change is possible.
func (s CaseStatus) Terminal() bool {
	return s == StatusFinished
}

// CaseType is the kind of administrative proceeding being contested.
type CaseType string

const (
	CaseTypeSuspension CaseType = "Suspensão"
	CaseTypeRevocation CaseType = "Cassação"
)

// caseFees is the fixed price table.
var caseFees = map[CaseType]decimal.Decimal{
	CaseTypeSuspension: decimal.NewFromInt(490),
	CaseTypeRevocation: decimal.NewFromInt(980),
}

// ParseCaseType resolves a case type, tolerating surrounding whitespace and
// letter case.
func ParseCaseType(s string) (CaseType, error) {
	s = strings.TrimSpace(s)
	for t := range caseFees {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", ErrUnknownCaseType
}

// Fee returns the fixed price for the case type.
func (t CaseType) Fee() (decimal.Decimal, error) {
	fee, ok := caseFees[t]
	if !ok {
		return decimal.Zero, ErrUnknownCaseType
	}
	return fee, nil
}

// Fine is one penalty line item composing a case.
type Fine struct {
	ID           string `json:"id"`
	Points       int    `json:"points"`
	EvidenceRef  string `json:"evidence_ref"`
	DocumentName string `json:"document_name,omitempty"`
}

// ValidateFines enforces the fine-list rules shared by submission and edits.
func ValidateFines(fines []Fine) error {
	if len(fines) == 0 {
		return ErrEmptyFines
	}
	for _, f := range fines {
		if f.Points < 0 {
			return ErrNegativePoints
		}
		if strings.TrimSpace(f.EvidenceRef) == "" {
			return ErrFineEvidenceMissing
		}
	}
	return nil
}

// Notes mirrored into Case.LastNote for display.
const (
	NoteAwaitingProfessionals = "Aguardando Advogados"
	NoteAwaitingPayment       = "Aguardando Pagamento"
)

// Case is the core aggregate root: one defense request.
type Case struct {
	ID             string          `json:"id"`
	ReferenceCode  string          `json:"reference_code"`
	ClientID       string          `json:"client_id"`
	ClientName     string          `json:"client_name,omitempty"`
	ProfessionalID string          `json:"professional_id,omitempty"`
	Type           CaseType        `json:"type"`
	Fines          []Fine          `json:"fines"`
	TotalPoints    int             `json:"total_points"`
	Fee            decimal.Decimal `json:"fee"`
	Status         CaseStatus      `json:"status"`
	Narrative      string          `json:"narrative,omitempty"`
	RegistryNumber string          `json:"registry_number,omitempty"`
	Organ          string          `json:"organ,omitempty"`
	LastNote       string          `json:"last_note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	// Version increments on every committed write; each write appends exactly
	// one timeline event, so Version also equals the timeline length.
	Version int64 `json:"-"`
}

// SetFines replaces the fine list and recomputes the point total.
func (c *Case) SetFines(fines []Fine) {
	c.Fines = append([]Fine(nil), fines...)
	total := 0
	for _, f := range c.Fines {
		total += f.Points
	}
	c.TotalPoints = total
}

// SetType changes the case type and its fee.
func (c *Case) SetType(t CaseType) error {
	fee, err := t.Fee()
	if err != nil {
		return err
	}
	c.Type = t
	c.Fee = fee
	return nil
}

// Claimable reports whether the case can still be assigned.
func (c *Case) Claimable() bool {
	return c.Status == StatusOpen && c.ProfessionalID == ""
}

// EditableByOwner reports whether the owning client may still change the case.
func (c *Case) EditableByOwner() bool {
	return c.Claimable()
}

// VisibleTo reports whether the actor may read the case and its timeline.
func (c *Case) VisibleTo(actorID string) bool {
	return actorID != "" && (c.ClientID == actorID || c.ProfessionalID == actorID)
}

// Clone returns a deep copy safe to mutate.
func (c *Case) Clone() *Case {
	cp := *c
	cp.Fines = append([]Fine(nil), c.Fines...)
	return &cp
}

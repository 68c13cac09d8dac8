package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

const (
	systemAuthor       = "Radar Hub"
	titleCaseOpened    = "Processo Iniciado"
	titleCaseEdited    = "Processo Atualizado"
	titleCaseClaimed   = domain.NoteAwaitingPayment
	defaultAuthorLabel = "Usuário"

	maxClaimAttempts = 3
)

// CaseService implements the case lifecycle on top of a versioned store.
type CaseService struct {
	cases    ports.CaseRepository
	declines ports.DeclineStore
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewCaseService(cases ports.CaseRepository, declines ports.DeclineStore, notifier ports.Notifier, log zerolog.Logger) *CaseService {
	return &CaseService{
		cases:    cases,
		declines: declines,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

var _ ports.CaseService = (*CaseService)(nil)

// Submit opens a new case for a client.
func (s *CaseService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitCaseInput) (*domain.Case, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}
	caseType, err := domain.ParseCaseType(in.Type)
	if err != nil {
		return nil, err
	}
	fines, err := prepareFines(in.Fines)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &domain.Case{
		ID:            domain.NewID(domain.PrefixCase),
		ReferenceCode: generateReferenceCode(),
		ClientID:      actor.ID,
		ClientName:    actor.Name,
		Status:        domain.StatusOpen,
		Narrative:     strings.TrimSpace(in.Narrative),
		LastNote:      domain.NoteAwaitingProfessionals,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.SetType(caseType); err != nil {
		return nil, err
	}
	c.SetFines(fines)

	ev := domain.NewTimelineEvent(c, domain.EventStatusChange, titleCaseOpened,
		fmt.Sprintf("%s com %d pontos. %s.", c.Type, c.TotalPoints, domain.NoteAwaitingProfessionals),
		domain.RoleSystem, systemAuthor, evidenceOf(fines))
	if err := s.cases.Create(ctx, c, ev); err != nil {
		s.log.Error().Err(err).Str("client_id", actor.ID).Msg("failed to create case")
		return nil, fmt.Errorf("submit case: %w", err)
	}

	s.log.Info().
		Str("case_id", c.ID).
		Str("reference", c.ReferenceCode).
		Str("type", string(c.Type)).
		Int("total_points", c.TotalPoints).
		Msg("case submitted")

	s.publish(ctx, ports.Notification{
		Kind: ports.NotifyCaseSubmitted,
		Key:  c.ID,
		Payload: ports.CaseSubmittedMessage{
			CaseID:        c.ID,
			ReferenceCode: c.ReferenceCode,
			ClientID:      c.ClientID,
			Type:          string(c.Type),
		},
	})
	return c, nil
}

// Update lets the owning client edit a case until a professional takes it.
func (s *CaseService) Update(ctx context.Context, actor *domain.User, caseID string, in ports.UpdateCaseInput) (*domain.Case, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.ClientID != actor.ID {
		return nil, domain.ErrNotCaseParticipant
	}
	if !c.EditableByOwner() {
		return nil, domain.ErrCaseLocked
	}

	expected := c.Version
	var changes []string
	if in.Type != nil {
		t, err := domain.ParseCaseType(*in.Type)
		if err != nil {
			return nil, err
		}
		if err := c.SetType(t); err != nil {
			return nil, err
		}
		changes = append(changes, "tipo")
	}
	var refs []string
	if in.Fines != nil {
		fines, err := prepareFines(in.Fines)
		if err != nil {
			return nil, err
		}
		c.SetFines(fines)
		refs = evidenceOf(fines)
		changes = append(changes, "multas")
	}
	if in.Narrative != nil {
		c.Narrative = strings.TrimSpace(*in.Narrative)
		changes = append(changes, "relato")
	}
	c.UpdatedAt = s.now().UTC()

	desc := "Sem alterações."
	if len(changes) > 0 {
		desc = "Alterado: " + strings.Join(changes, ", ") + "."
	}
	ev := domain.NewTimelineEvent(c, domain.EventMessage, titleCaseEdited, desc, domain.RoleClient, authorName(actor), refs)
	if err := s.cases.Update(ctx, c, expected, ev); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update case: %w", err)
	}

	s.log.Info().Str("case_id", c.ID).Strs("changes", changes).Msg("case edited by owner")
	return c, nil
}

// Claim assigns an open case to a verified professional. Exactly one of any
// number of concurrent claims succeeds; the rest see domain.ErrCaseNotClaimable.
// A version clash caused by an unrelated write, such as an owner edit, is
// retried against the fresh case.
func (s *CaseService) Claim(ctx context.Context, actor *domain.User, caseID string) (*domain.Case, error) {
	if err := requireRole(actor, domain.RoleProfessional); err != nil {
		return nil, err
	}
	if actor.VerificationStatus != domain.VerificationVerified {
		return nil, domain.ErrNotVerified
	}

	for attempt := 1; ; attempt++ {
		c, err := s.load(ctx, caseID)
		if err != nil {
			return nil, err
		}
		if !c.Claimable() {
			if attempt > 1 {
				s.log.Info().Str("case_id", caseID).Str("professional_id", actor.ID).Msg("claim lost race")
			}
			return nil, domain.ErrCaseNotClaimable
		}

		expected := c.Version
		ev := domain.NewTimelineEvent(c, domain.EventStatusChange, titleCaseClaimed,
			fmt.Sprintf("Caso aceito por %s.", authorName(actor)),
			domain.RoleProfessional, authorName(actor), nil)
		c.ProfessionalID = actor.ID
		c.Status = domain.StatusClaimed
		c.LastNote = domain.NoteAwaitingPayment
		c.UpdatedAt = s.now().UTC()

		err = s.cases.Update(ctx, c, expected, ev)
		switch {
		case err == nil:
			s.log.Info().Str("case_id", c.ID).Str("professional_id", actor.ID).Msg("case claimed")
			s.publishStatus(ctx, c)
			return c, nil
		case errors.Is(err, domain.ErrConcurrentModification):
			if attempt >= maxClaimAttempts {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("claim case: %w", err)
		}
	}
}

// RecordStatus applies a progress label reported by the assigned professional.
func (s *CaseService) RecordStatus(ctx context.Context, actor *domain.User, caseID string, in ports.RecordStatusInput) (*domain.Case, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.ProfessionalID == "" || c.ProfessionalID != actor.ID {
		return nil, domain.ErrNotCaseParticipant
	}

	label := strings.Join(strings.Fields(in.Label), " ")
	rule, err := domain.LookupStatusLabel(label)
	if err != nil {
		return nil, err
	}
	refs := trimRefs(in.EvidenceRefs)
	if rule.NeedsEvidence(c.Status) && len(refs) == 0 {
		return nil, domain.ErrEvidenceRequired
	}
	narrative := strings.TrimSpace(in.Narrative)
	if rule.OutcomeRequired && narrative == "" {
		return nil, domain.ErrOutcomeRequired
	}
	next, err := rule.Resolve(c.Status)
	if err != nil {
		return nil, fmt.Errorf("record status: %w (from %s via %q)", err, c.Status, label)
	}

	kind := domain.EventStatusChange
	if next == c.Status {
		kind = domain.EventMessage
		if len(refs) > 0 {
			kind = domain.EventDocument
		}
	}

	expected := c.Version
	ev := domain.NewTimelineEvent(c, kind, label, narrative, domain.RoleProfessional, authorName(actor), refs)
	previous := c.Status
	c.Status = next
	c.LastNote = label
	if in.RegistryNumber != nil {
		c.RegistryNumber = strings.TrimSpace(*in.RegistryNumber)
	}
	if in.Organ != nil {
		c.Organ = strings.TrimSpace(*in.Organ)
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.cases.Update(ctx, c, expected, ev); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("record status: %w", err)
	}

	s.log.Info().
		Str("case_id", c.ID).
		Str("from", string(previous)).
		Str("to", string(next)).
		Str("label", label).
		Msg("case status recorded")

	s.publishStatus(ctx, c)
	return c, nil
}

// Get returns a case to its participants. Professionals may also inspect any
// case that is still up for grabs.
func (s *CaseService) Get(ctx context.Context, actor *domain.User, caseID string) (*domain.Case, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.VisibleTo(actor.ID) || (actor.Role == domain.RoleProfessional && c.Claimable()) {
		return c, nil
	}
	return nil, domain.ErrNotCaseParticipant
}

func (s *CaseService) ListMine(ctx context.Context, actor *domain.User) ([]*domain.Case, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	var filter ports.CaseFilter
	switch actor.Role {
	case domain.RoleClient:
		filter.ClientID = actor.ID
	case domain.RoleProfessional:
		filter.ProfessionalID = actor.ID
	default:
		return nil, domain.ErrRoleNotAllowed
	}
	list, err := s.cases.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return list, nil
}

// Opportunities lists open cases the professional has not declined.
func (s *CaseService) Opportunities(ctx context.Context, actor *domain.User) ([]*domain.Case, error) {
	if err := requireRole(actor, domain.RoleProfessional); err != nil {
		return nil, err
	}
	open, err := s.cases.List(ctx, ports.CaseFilter{Status: domain.StatusOpen, Unassigned: true})
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	declined, err := s.declines.Declined(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: declines: %w", err)
	}
	out := make([]*domain.Case, 0, len(open))
	for _, c := range open {
		if _, skip := declined[c.ID]; skip {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Decline hides an open case from the professional's opportunities. The case
// itself is untouched.
func (s *CaseService) Decline(ctx context.Context, actor *domain.User, caseID string) error {
	if err := requireRole(actor, domain.RoleProfessional); err != nil {
		return err
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return err
	}
	if !c.Claimable() {
		return domain.ErrCaseNotClaimable
	}
	if err := s.declines.Add(ctx, actor.ID, c.ID); err != nil {
		return fmt.Errorf("decline case: %w", err)
	}
	s.log.Info().Str("case_id", c.ID).Str("professional_id", actor.ID).Msg("opportunity declined")
	return nil
}

func (s *CaseService) Timeline(ctx context.Context, actor *domain.User, caseID string) ([]domain.TimelineEvent, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !c.VisibleTo(actor.ID) {
		return nil, domain.ErrNotCaseParticipant
	}
	events, err := s.cases.Timeline(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return domain.NewestFirst(events), nil
}

func (s *CaseService) load(ctx context.Context, caseID string) (*domain.Case, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("load case %s: %w", caseID, err)
	}
	return c, nil
}

func (s *CaseService) publishStatus(ctx context.Context, c *domain.Case) {
	s.publish(ctx, ports.Notification{
		Kind: ports.NotifyCaseStatusChanged,
		Key:  c.ID,
		Payload: ports.CaseStatusMessage{
			CaseID:         c.ID,
			ClientID:       c.ClientID,
			ProfessionalID: c.ProfessionalID,
			Status:         string(c.Status),
			Note:           c.LastNote,
		},
	})
}

// publish is best effort; the state change is already committed.
func (s *CaseService) publish(ctx context.Context, n ports.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("kind", n.Kind).Str("key", n.Key).Msg("failed to publish notification")
	}
}

func requireRole(actor *domain.User, role domain.Role) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if actor.Role != role {
		return domain.ErrRoleNotAllowed
	}
	return nil
}

// prepareFines validates the list and fills in missing line-item ids.
func prepareFines(in []domain.Fine) ([]domain.Fine, error) {
	if err := domain.ValidateFines(in); err != nil {
		return nil, err
	}
	out := make([]domain.Fine, len(in))
	for i, f := range in {
		f.EvidenceRef = strings.TrimSpace(f.EvidenceRef)
		f.DocumentName = strings.TrimSpace(f.DocumentName)
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		out[i] = f
	}
	return out, nil
}

func evidenceOf(fines []domain.Fine) []string {
	refs := make([]string, 0, len(fines))
	for _, f := range fines {
		refs = append(refs, f.EvidenceRef)
	}
	return refs
}

func trimRefs(in []string) []string {
	var out []string
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func authorName(u *domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return defaultAuthorLabel
}

// generateReferenceCode returns a human-facing code in the format RAD-XXXXXXXX.
func generateReferenceCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("RAD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("RAD-%08X", b)
}

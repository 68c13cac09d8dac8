package domain

import "strings"

// StatusRule describes what recording a given label does to a case.
type StatusRule struct {
	// Target is the lifecycle state the label implies. Empty means the label
	// annotates the case without moving it.
	Target           CaseStatus
	EvidenceRequired bool
	OutcomeRequired  bool
}

// statusLabels is the fixed label table. Keys are normalised with labelKey.
var statusLabels = map[string]StatusRule{
	"aguardando pagamento":    {Target: StatusClaimed},
	"claimed":                 {Target: StatusClaimed},
	"pagamento confirmado":    {Target: StatusProtocolPending},
	"aguardando protocolação": {Target: StatusProtocolPending},
	"em elaboração":           {Target: StatusProtocolPending},
	"protocol_pending":        {Target: StatusProtocolPending},
	"protocolado":             {Target: StatusActive, EvidenceRequired: true},
	"recurso 2ª instância":    {Target: StatusActive, EvidenceRequired: true},
	"em julgamento":           {Target: StatusActive},
	"active":                  {Target: StatusActive, EvidenceRequired: true},
	"deferido":                {Target: StatusFinished, EvidenceRequired: true, OutcomeRequired: true},
	"indeferido":              {Target: StatusFinished, EvidenceRequired: true, OutcomeRequired: true},
	"finished":                {Target: StatusFinished, EvidenceRequired: true, OutcomeRequired: true},
	"nota do advogado":        {},
}

func labelKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// LookupStatusLabel resolves a free-text label against the fixed table.
func LookupStatusLabel(label string) (StatusRule, error) {
	rule, ok := statusLabels[labelKey(label)]
	if !ok {
		return StatusRule{}, ErrInvalidStatusLabel
	}
	return rule, nil
}

// NeedsEvidence reports whether applying the rule to a case in status current
// must carry an attachment. Entering ACTIVE always does, since that is the
// filing step.
func (r StatusRule) NeedsEvidence(current CaseStatus) bool {
	return r.EvidenceRequired || (r.Target == StatusActive && current != StatusActive)
}

// Resolve returns the state a case in status current moves to under this rule.
// OPEN cases only leave through a claim. FINISHED cases accept annotations
// but no lifecycle label.
func (r StatusRule) Resolve(current CaseStatus) (CaseStatus, error) {
	if current == StatusOpen {
		return "", ErrInvalidTransition
	}
	if r.Target == "" {
		return current, nil
	}
	if current.Terminal() {
		return "", ErrInvalidTransition
	}
	if r.Target == current {
		return current, nil
	}
	if !current.CanTransitionTo(r.Target) {
		return "", ErrInvalidTransition
	}
	return r.Target, nil
}

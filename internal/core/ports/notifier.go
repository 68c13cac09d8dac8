package ports

import "context"

// Notification kinds, also used as queue task types.
const (
	NotifySMSCode           = "sms:otp"
	NotifyCaseSubmitted     = "case:submitted"
	NotifyCaseStatusChanged = "case:status_changed"
)

// Notification is an outbound message handed to the delivery pipeline.
// Key groups messages that must be delivered in order, e.g. a case id.
type Notification struct {
	ID      string
	Kind    string
	Key     string
	Payload any
}

// SMSCodeMessage asks the SMS gateway to deliver a login code.
type SMSCodeMessage struct {
	To         string `json:"to"`
	TemplateID string `json:"template_id"`
	Code       string `json:"code"`
}

// CaseSubmittedMessage announces a new opportunity to professionals.
type CaseSubmittedMessage struct {
	CaseID        string `json:"case_id"`
	ReferenceCode string `json:"reference_code"`
	ClientID      string `json:"client_id"`
	Type          string `json:"type"`
}

// CaseStatusMessage informs participants that a case moved or was annotated.
type CaseStatusMessage struct {
	CaseID         string `json:"case_id"`
	ClientID       string `json:"client_id"`
	ProfessionalID string `json:"professional_id"`
	Status         string `json:"status"`
	Note           string `json:"note"`
}

// Notifier publishes notifications. Delivery is best effort; callers log and
// ignore errors.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

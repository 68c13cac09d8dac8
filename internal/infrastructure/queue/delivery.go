// Package queue moves outbound notifications from the API to their delivery
// channel, either in-process or through an asynq queue on Redis.
package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/v-pascoal/radar-hub/internal/core/ports"
)

// Deliverer performs the final hop of a notification.
type Deliverer interface {
	Deliver(ctx context.Context, n ports.Notification) error
}

// LogDeliverer stands in for the SMS gateway and push providers, which are
// external collaborators. It records what would be sent.
type LogDeliverer struct {
	log zerolog.Logger
}

func NewLogDeliverer(log zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(_ context.Context, n ports.Notification) error {
	ev := d.log.Info().Str("notification_id", n.ID).Str("kind", n.Kind)
	switch p := n.Payload.(type) {
	case ports.SMSCodeMessage:
		// The code itself is never logged.
		ev.Str("to", p.To).Str("template", p.TemplateID).Msg("sms dispatched")
	case ports.CaseSubmittedMessage:
		ev.Str("case_id", p.CaseID).Str("reference", p.ReferenceCode).Str("type", p.Type).Msg("opportunity announced")
	case ports.CaseStatusMessage:
		ev.Str("case_id", p.CaseID).
			Str("client_id", p.ClientID).
			Str("professional_id", p.ProfessionalID).
			Str("status", p.Status).
			Str("note", p.Note).
			Msg("case participants notified")
	default:
		return fmt.Errorf("unsupported notification payload %T", n.Payload)
	}
	return nil
}

package domain

import "time"

// EventKind classifies a timeline entry.
type EventKind string

const (
	EventStatusChange EventKind = "STATUS_CHANGE"
	EventMessage      EventKind = "MESSAGE"
	EventDocument     EventKind = "DOCUMENT"
)

// TimelineEvent is an immutable audit entry attached to a case.
type TimelineEvent struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"case_id"`
	Seq            int64     `json:"seq"`
	Timestamp      time.Time `json:"timestamp"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	AuthorRole     Role      `json:"author_role"`
	AuthorName     string    `json:"author_name"`
	Kind           EventKind `json:"kind"`
	AttachmentRefs []string  `json:"attachment_refs,omitempty"`
}

// NewTimelineEvent builds the event recorded alongside the write that moves c
// to its next version.
func NewTimelineEvent(c *Case, kind EventKind, title, description string, role Role, author string, attachments []string) *TimelineEvent {
	return &TimelineEvent{
		ID:             NewID(PrefixEvent),
		CaseID:         c.ID,
		Seq:            c.Version + 1,
		Timestamp:      time.Now().UTC(),
		Title:          title,
		Description:    description,
		AuthorRole:     role,
		AuthorName:     author,
		Kind:           kind,
		AttachmentRefs: append([]string(nil), attachments...),
	}
}

// NewestFirst returns the events in display order without touching the input.
func NewestFirst(events []TimelineEvent) []TimelineEvent {
	out := make([]TimelineEvent, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

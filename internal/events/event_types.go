package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketTaken       EventType = "ticket_taken"
	EventTicketDecided     EventType = "ticket_decided"
	EventCommentAdded      EventType = "comment_added"
	EventAttachmentAdded   EventType = "attachment_added"
	EventVacationRequested EventType = "vacation_requested"
	EventVacationDecided   EventType = "vacation_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketCode string      `json:"ticket_code"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category domain.TicketCategory `json:"category"`
	Title    string                `json:"title"`
}

// TicketTakenPayload payload.
type TicketTakenPayload struct {
	AgentID       string  `json:"agent_id"`
	PreviousAgent *string `json:"previous_agent,omitempty"`
}

// TicketDecidedPayload payload.
type TicketDecidedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// AttachmentAddedPayload payload.
type AttachmentAddedPayload struct {
	AttachmentID string `json:"attachment_id"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

// VacationRequestedPayload payload.
type VacationRequestedPayload struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// VacationDecidedPayload payload.
type VacationDecidedPayload struct {
	OldStatus domain.VacationStatus `json:"old_status"`
	NewStatus domain.VacationStatus `json:"new_status"`
}

package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus         TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAgent          TicketChangeType = "AGENT_CHANGE"
	ChangeTypeVacationStatus TicketChangeType = "VACATION_STATUS_CHANGE"
)

// TicketHistory is an immutable audit trail entry recorded alongside take
// and decision operations.
type TicketHistory struct {
	ID          string
	TicketID    string
	ChangedByID string
	ChangeType  TicketChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusTodo       TicketStatus = "TODO"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusApproved   TicketStatus = "APPROVED"
	TicketStatusRejected   TicketStatus = "REJECTED"
)

// ParseTicketStatus validates a status value from an untrusted source.
func ParseTicketStatus(value string) (TicketStatus, bool) {
	switch TicketStatus(value) {
	case TicketStatusTodo, TicketStatusInProgress, TicketStatusApproved, TicketStatusRejected:
		return TicketStatus(value), true
	}
	return "", false
}

// DecisionStatuses are the statuses an assigned agent may move a ticket to.
var DecisionStatuses = []TicketStatus{
	TicketStatusInProgress,
	TicketStatusApproved,
	TicketStatusRejected,
}

// IsDecisionStatus reports whether the status is a valid agent decision.
func IsDecisionStatus(status TicketStatus) bool {
	for _, candidate := range DecisionStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// TicketCategory enumerates the request categories users pick from.
type TicketCategory string

const (
	CategoryGeneral   TicketCategory = "General"
	CategoryHardware  TicketCategory = "Hardware"
	CategorySoftware  TicketCategory = "Software"
	CategoryAccess    TicketCategory = "Access"
	CategoryVacations TicketCategory = "Vacations"
)

// ParseTicketCategory validates a category value from an untrusted source.
func ParseTicketCategory(value string) (TicketCategory, bool) {
	switch TicketCategory(value) {
	case CategoryGeneral, CategoryHardware, CategorySoftware, CategoryAccess, CategoryVacations:
		return TicketCategory(value), true
	}
	return "", false
}

// Ticket is the aggregate for support requests. The owner is always the
// creator; the agent stays nil until an agent takes the ticket.
type Ticket struct {
	ID        string
	Code      string
	OwnerID   string
	AgentID   *string
	Title     string
	Body      string
	Category  TicketCategory
	Status    TicketStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVacationRequest reports whether the ticket carries a linked vacation.
func (t *Ticket) IsVacationRequest() bool {
	return t != nil && t.Category == CategoryVacations
}

// VisibleTo reports whether the principal may view the ticket: only the
// owner and the assigned agent ever see it.
func (t *Ticket) VisibleTo(user *User) bool {
	if t == nil || user == nil {
		return false
	}
	if t.OwnerID == user.ID {
		return true
	}
	return t.AgentID != nil && *t.AgentID == user.ID
}

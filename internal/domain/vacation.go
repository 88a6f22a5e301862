package domain

import "time"

// VacationStatus enumerates vacation decision states.
type VacationStatus string

const (
	VacationStatusPending  VacationStatus = "pending"
	VacationStatusApproved VacationStatus = "approved"
	VacationStatusRejected VacationStatus = "rejected"
)

// ParseVacationStatus validates a status value from an untrusted source.
func ParseVacationStatus(value string) (VacationStatus, bool) {
	switch VacationStatus(value) {
	case VacationStatusPending, VacationStatusApproved, VacationStatusRejected:
		return VacationStatus(value), true
	}
	return "", false
}

// VacationDecisionStatuses are the statuses an assigned agent may set.
var VacationDecisionStatuses = []VacationStatus{
	VacationStatusApproved,
	VacationStatusRejected,
}

// IsVacationDecision reports whether the status is a valid agent decision.
func IsVacationDecision(status VacationStatus) bool {
	for _, candidate := range VacationDecisionStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// Vacation is the time-off record linked one-to-one to a ticket whose
// category is Vacations. Owner mirrors the ticket owner; the agent mirrors
// the ticket agent once the ticket is taken.
type Vacation struct {
	ID        string
	TicketID  string
	OwnerID   string
	AgentID   *string
	Status    VacationStatus
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleTo reports whether the principal may view the vacation.
func (v *Vacation) VisibleTo(user *User) bool {
	if v == nil || user == nil {
		return false
	}
	if v.OwnerID == user.ID {
		return true
	}
	return v.AgentID != nil && *v.AgentID == user.ID
}

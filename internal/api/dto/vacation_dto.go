package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// VacationDetailsRequest carries the requested date range as ISO dates.
type VacationDetailsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// VacationDecisionRequest payload.
type VacationDecisionRequest struct {
	Status string `json:"status"`
}

// VacationResponse response.
type VacationResponse struct {
	ID        string                `json:"id"`
	TicketID  string                `json:"ticket_id"`
	OwnerID   string                `json:"owner_id"`
	AgentID   *string               `json:"agent_id,omitempty"`
	Status    domain.VacationStatus `json:"status"`
	StartDate *time.Time            `json:"start_date,omitempty"`
	EndDate   *time.Time            `json:"end_date,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// DashboardResponse is the principal's landing view.
type DashboardResponse struct {
	Tickets           []TicketSummary    `json:"tickets"`
	PendingVacations  []VacationResponse `json:"pending_vacations"`
	ApprovedVacations []VacationResponse `json:"approved_vacations"`
	Comments          []CommentResponse  `json:"comments"`
}

package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

// TicketSummary response.
type TicketSummary struct {
	ID        string                `json:"id"`
	Code      string                `json:"code"`
	OwnerID   string                `json:"owner_id"`
	AgentID   *string               `json:"agent_id,omitempty"`
	Title     string                `json:"title"`
	Category  domain.TicketCategory `json:"category"`
	Status    domain.TicketStatus   `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// TicketDetailResponse response.
type TicketDetailResponse struct {
	ID          string                `json:"id"`
	Code        string                `json:"code"`
	OwnerID     string                `json:"owner_id"`
	AgentID     *string               `json:"agent_id,omitempty"`
	Title       string                `json:"title"`
	Body        string                `json:"body"`
	Category    domain.TicketCategory `json:"category"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Comments    []CommentResponse     `json:"comments"`
	Attachments []AttachmentResponse  `json:"attachments"`
	Vacation    *VacationResponse     `json:"vacation,omitempty"`
}

// CreateTicketResponse signals whether the client should continue to
// vacation detail entry.
type CreateTicketResponse struct {
	Ticket   TicketSummary     `json:"ticket"`
	Vacation *VacationResponse `json:"vacation,omitempty"`
}

// TicketDecisionRequest payload.
type TicketDecisionRequest struct {
	Status string `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse response.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	OwnerID   string    `json:"owner_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse response.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

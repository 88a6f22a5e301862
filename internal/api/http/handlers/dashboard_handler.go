package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// DashboardHandler serves the principal's landing view.
type DashboardHandler struct {
	tickets *service.TicketService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(ticketService *service.TicketService) *DashboardHandler {
	return &DashboardHandler{tickets: ticketService}
}

// Dashboard GET /dashboard. The order and status query parameters are
// restricted to closed enum sets; anything else is a validation error.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	opts := service.DashboardOptions{Order: repository.OrderByCreated}
	if orderParam := c.Query("order"); orderParam != "" {
		order, ok := repository.ParseTicketOrder(orderParam)
		if !ok {
			return apperrors.NewValidationError("unknown order", map[string]any{"order": orderParam})
		}
		opts.Order = order
	}
	if statusParam := c.Query("status"); statusParam != "" {
		status, ok := domain.ParseTicketStatus(statusParam)
		if !ok {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": statusParam})
		}
		opts.Status = &status
	}

	dashboard, err := h.tickets.LoadDashboard(c.Context(), principal, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboardResponse(dashboard)})
}

func dashboardResponse(dashboard *service.Dashboard) dto.DashboardResponse {
	resp := dto.DashboardResponse{
		Tickets:           make([]dto.TicketSummary, 0, len(dashboard.Tickets)),
		PendingVacations:  make([]dto.VacationResponse, 0, len(dashboard.PendingVacations)),
		ApprovedVacations: make([]dto.VacationResponse, 0, len(dashboard.ApprovedVacations)),
		Comments:          make([]dto.CommentResponse, 0, len(dashboard.Comments)),
	}
	for i := range dashboard.Tickets {
		resp.Tickets = append(resp.Tickets, ticketSummary(&dashboard.Tickets[i]))
	}
	for i := range dashboard.PendingVacations {
		resp.PendingVacations = append(resp.PendingVacations, vacationResponse(&dashboard.PendingVacations[i]))
	}
	for i := range dashboard.ApprovedVacations {
		resp.ApprovedVacations = append(resp.ApprovedVacations, vacationResponse(&dashboard.ApprovedVacations[i]))
	}
	for i := range dashboard.Comments {
		resp.Comments = append(resp.Comments, commentResponse(&dashboard.Comments[i]))
	}
	return resp
}

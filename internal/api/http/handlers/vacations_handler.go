package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// VacationsHandler manages vacation endpoints.
type VacationsHandler struct {
	vacations *service.VacationService
}

// NewVacationsHandler constructs handler.
func NewVacationsHandler(vacationService *service.VacationService) *VacationsHandler {
	return &VacationsHandler{vacations: vacationService}
}

// ListVacations GET /vacations.
func (h *VacationsHandler) ListVacations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	vacations, err := h.vacations.ListForPrincipal(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.VacationResponse, 0, len(vacations))
	for i := range vacations {
		items = append(items, vacationResponse(&vacations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetVacation GET /vacations/:code.
func (h *VacationsHandler) GetVacation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	vacation, err := h.vacations.GetForPrincipal(c.Context(), principal, c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vacationResponse(vacation)})
}

// SubmitDetails POST /vacations/:code.
func (h *VacationsHandler) SubmitDetails(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.VacationDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", map[string]any{"start_date": req.StartDate})
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return apperrors.NewValidationError("invalid end_date", map[string]any{"end_date": req.EndDate})
	}

	vacation, err := h.vacations.SubmitDetails(c.Context(), principal, c.Params("code"), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vacationResponse(vacation)})
}

// DecideVacation POST /vacations/:code/decision.
func (h *VacationsHandler) DecideVacation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.VacationDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseVacationStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	vacation, err := h.vacations.Decide(c.Context(), principal, c.Params("code"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vacationResponse(vacation)})
}

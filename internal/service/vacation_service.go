package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// VacationService handles the vacation workflow hanging off a
// Vacations-category ticket: date entry by the owner and the agent decision.
type VacationService struct {
	vacations  repository.VacationRepository
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
}

// VacationDependencies bundles collaborators for the vacation service.
type VacationDependencies struct {
	VacationRepo repository.VacationRepository
	TicketRepo   repository.TicketRepository
	HistoryRepo  repository.TicketHistoryRepository
	Dispatcher   events.Dispatcher
}

// NewVacationService constructs the service.
func NewVacationService(deps VacationDependencies) *VacationService {
	return &VacationService{
		vacations:  deps.VacationRepo,
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// SubmitDetails fills in the requested date range. Owner only; the status
// stays pending until an agent decides.
func (s *VacationService) SubmitDetails(ctx context.Context, owner *domain.User, code string, start, end time.Time) (*domain.Vacation, error) {
	vacation, err := s.getByTicketCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if vacation.OwnerID != owner.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.NewValidationError("start and end dates required", nil)
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end date before start date", map[string]any{
			"start_date": start.Format(time.DateOnly),
			"end_date":   end.Format(time.DateOnly),
		})
	}

	vacation.StartDate = &start
	vacation.EndDate = &end
	if err := s.vacations.Update(ctx, vacation); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventVacationRequested,
		TicketCode: code,
		ActorID:    owner.ID,
		Payload: events.VacationRequestedPayload{
			StartDate: vacation.StartDate,
			EndDate:   vacation.EndDate,
		},
	})
	return vacation, nil
}

// Decide sets the vacation status. Only the assigned agent may decide, and
// only to approved or rejected. The parent ticket status is deliberately
// left untouched; ticket decisions go through TicketService.DecideTicket.
func (s *VacationService) Decide(ctx context.Context, agent *domain.User, code string, newStatus domain.VacationStatus) (*domain.Vacation, error) {
	vacation, err := s.getByTicketCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if vacation.AgentID == nil || *vacation.AgentID != agent.ID {
		return nil, apperrors.NewForbidden("only the assigned agent may decide")
	}
	if !domain.IsVacationDecision(newStatus) {
		return nil, apperrors.NewValidationError("invalid decision status", map[string]any{"status": newStatus})
	}

	oldStatus := vacation.Status
	vacation.Status = newStatus
	if err := s.vacations.Update(ctx, vacation); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.history != nil {
		_ = s.history.Create(ctx, &domain.TicketHistory{
			TicketID:    vacation.TicketID,
			ChangedByID: agent.ID,
			ChangeType:  domain.ChangeTypeVacationStatus,
			OldValue:    map[string]any{"status": oldStatus},
			NewValue:    map[string]any{"status": newStatus},
		})
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventVacationDecided,
		TicketCode: code,
		ActorID:    agent.ID,
		Payload: events.VacationDecidedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return vacation, nil
}

// GetForPrincipal loads one vacation by ticket code for a permitted viewer.
func (s *VacationService) GetForPrincipal(ctx context.Context, principal *domain.User, code string) (*domain.Vacation, error) {
	vacation, err := s.getByTicketCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !vacation.VisibleTo(principal) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return vacation, nil
}

// ListForPrincipal returns the principal's visible vacations.
func (s *VacationService) ListForPrincipal(ctx context.Context, principal *domain.User) ([]domain.Vacation, error) {
	filter, err := VacationScopeFor(principal)
	if err != nil {
		return nil, err
	}
	vacations, err := s.vacations.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return vacations, nil
}

func (s *VacationService) getByTicketCode(ctx context.Context, code string) (*domain.Vacation, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}
	vacation, err := s.vacations.GetByTicketID(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("vacation", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return vacation, nil
}

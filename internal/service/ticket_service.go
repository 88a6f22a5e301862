package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// TicketService coordinates the ticket lifecycle: create, take, decide,
// view and the dashboard/unassigned listings.
type TicketService struct {
	tickets     repository.TicketRepository
	vacations   repository.VacationRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	history     repository.TicketHistoryRepository
	tx          persistence.TxRunner
	codes       CodeGenerator
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	VacationRepo   repository.VacationRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	HistoryRepo    repository.TicketHistoryRepository
	Tx             persistence.TxRunner
	Codes          CodeGenerator
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		vacations:   deps.VacationRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		history:     deps.HistoryRepo,
		tx:          deps.Tx,
		codes:       deps.Codes,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title    string
	Body     string
	Category domain.TicketCategory
}

// CreateTicket files a new ticket for the owner. A Vacations-category
// ticket atomically gains its linked pending vacation; the returned
// vacation is non-nil exactly in that case, signalling the caller to
// continue to vacation detail entry.
func (s *TicketService) CreateTicket(ctx context.Context, owner *domain.User, input TicketCreateInput) (*domain.Ticket, *domain.Vacation, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" || body == "" {
		return nil, nil, apperrors.NewValidationError("title and body required", nil)
	}
	if _, ok := domain.ParseTicketCategory(string(input.Category)); !ok {
		return nil, nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	code, err := s.codes.Next(ctx)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Code:     code,
		OwnerID:  owner.ID,
		Title:    title,
		Body:     body,
		Category: input.Category,
		Status:   domain.TicketStatusTodo,
	}

	var vacation *domain.Vacation
	err = s.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Create(ctx, ticket); err != nil {
			return err
		}
		if ticket.IsVacationRequest() {
			vacation = &domain.Vacation{
				TicketID: ticket.ID,
				OwnerID:  owner.ID,
				Status:   domain.VacationStatusPending,
			}
			return s.vacations.WithTx(tx).Create(ctx, vacation)
		}
		return nil
	})
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketCode: ticket.Code,
		ActorID:    owner.ID,
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Title:    ticket.Title,
		},
	})
	return ticket, vacation, nil
}

// TakeTicket assigns the ticket (and its linked vacation, if any) to the
// agent. Re-taking an already-taken ticket overwrites the assignment;
// both rows change in one transaction so they never diverge.
func (s *TicketService) TakeTicket(ctx context.Context, agent *domain.User, code string) (*domain.Ticket, error) {
	if !agent.IsAgent() {
		return nil, apperrors.NewForbidden("agent role required")
	}
	ticket, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	previousAgent := ticket.AgentID
	ticket.AgentID = &agent.ID

	err = s.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Update(ctx, ticket); err != nil {
			return err
		}
		if !ticket.IsVacationRequest() {
			return nil
		}
		vacations := s.vacations.WithTx(tx)
		vacation, err := vacations.GetByTicketID(ctx, ticket.ID)
		if err != nil {
			return err
		}
		vacation.AgentID = &agent.ID
		return vacations.Update(ctx, vacation)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAgentChange(ctx, agent.ID, ticket.ID, previousAgent, ticket.AgentID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketTaken,
		TicketCode: ticket.Code,
		ActorID:    agent.ID,
		Payload: events.TicketTakenPayload{
			AgentID:       agent.ID,
			PreviousAgent: previousAgent,
		},
	})
	return ticket, nil
}

// DecideTicket updates the ticket status. Only the assigned agent may
// decide, and only to a decision status.
func (s *TicketService) DecideTicket(ctx context.Context, agent *domain.User, code string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket.AgentID == nil || *ticket.AgentID != agent.ID {
		return nil, apperrors.NewForbidden("only the assigned agent may decide")
	}
	if !domain.IsDecisionStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid decision status", map[string]any{"status": newStatus})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordStatusChange(ctx, agent.ID, ticket.ID, oldStatus, newStatus)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketDecided,
		TicketCode: ticket.Code,
		ActorID:    agent.ID,
		Payload: events.TicketDecidedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// TicketView is the full detail a permitted principal sees.
type TicketView struct {
	Ticket      *domain.Ticket
	Comments    []domain.Comment
	Attachments []domain.Attachment
	Vacation    *domain.Vacation
}

// ViewTicket loads the detail view. Only the owner and the assigned agent
// may see a ticket; everyone else is denied without learning whether the
// code exists.
func (s *TicketService) ViewTicket(ctx context.Context, principal *domain.User, code string) (*TicketView, error) {
	ticket, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ticket.VisibleTo(principal) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	view := &TicketView{Ticket: ticket, Comments: comments, Attachments: attachments}
	if ticket.IsVacationRequest() {
		vacation, err := s.vacations.GetByTicketID(ctx, ticket.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		view.Vacation = vacation
	}
	return view, nil
}

// ViewTicketAt is ViewTicket with the creation-date URL check: the date
// parts must match the ticket's creation day or the lookup fails.
func (s *TicketService) ViewTicketAt(ctx context.Context, principal *domain.User, year, month, day int, code string) (*TicketView, error) {
	view, err := s.ViewTicket(ctx, principal, code)
	if err != nil {
		return nil, err
	}
	created := view.Ticket.CreatedAt.UTC()
	if created.Year() != year || int(created.Month()) != month || created.Day() != day {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
	}
	return view, nil
}

// ListUnassigned returns tickets nobody has taken yet, optionally filtered
// by a case-insensitive title/body search. Agents only.
func (s *TicketService) ListUnassigned(ctx context.Context, agent *domain.User, search string) ([]domain.Ticket, error) {
	if !agent.IsAgent() {
		return nil, apperrors.NewForbidden("agent role required")
	}
	filter := repository.TicketFilter{
		Unassigned: true,
		OrderBy:    repository.OrderByCreated,
	}
	if strings.TrimSpace(search) != "" {
		filter.SearchTerm = &search
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// DashboardOptions carries the closed-set listing parameters.
type DashboardOptions struct {
	Status *domain.TicketStatus
	Order  repository.TicketOrder
}

// Dashboard is the principal's landing view: their tickets, their
// vacations split by decision state, and their own comments.
type Dashboard struct {
	Tickets           []domain.Ticket
	PendingVacations  []domain.Vacation
	ApprovedVacations []domain.Vacation
	Comments          []domain.Comment
}

// LoadDashboard builds the dashboard for the principal. Record visibility
// follows the scope filter only; status and ordering are validated enums.
func (s *TicketService) LoadDashboard(ctx context.Context, principal *domain.User, opts DashboardOptions) (*Dashboard, error) {
	ticketFilter, err := TicketScopeFor(principal)
	if err != nil {
		return nil, err
	}
	if opts.Status != nil {
		ticketFilter.Statuses = []domain.TicketStatus{*opts.Status}
	}
	ticketFilter.OrderBy = opts.Order

	tickets, err := s.tickets.ListWithFilter(ctx, ticketFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	vacationFilter, err := VacationScopeFor(principal)
	if err != nil {
		return nil, err
	}
	vacationFilter.Statuses = []domain.VacationStatus{
		domain.VacationStatusPending,
		domain.VacationStatusApproved,
	}
	vacations, err := s.vacations.ListWithFilter(ctx, vacationFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	comments, err := s.comments.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	dashboard := &Dashboard{Tickets: tickets, Comments: comments}
	for _, vacation := range vacations {
		switch vacation.Status {
		case domain.VacationStatusPending:
			dashboard.PendingVacations = append(dashboard.PendingVacations, vacation)
		case domain.VacationStatusApproved:
			dashboard.ApprovedVacations = append(dashboard.ApprovedVacations, vacation)
		}
	}
	return dashboard, nil
}

func (s *TicketService) getByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, actorID, ticketID string, oldStatus, newStatus domain.TicketStatus) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldStatus},
		NewValue:    map[string]any{"status": newStatus},
	}
	_ = s.history.Create(ctx, entry)
}

func (s *TicketService) recordAgentChange(ctx context.Context, actorID, ticketID string, oldAgent, newAgent *string) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		ChangeType:  domain.ChangeTypeAgent,
		OldValue:    map[string]any{"agent_id": oldAgent},
		NewValue:    map[string]any{"agent_id": newAgent},
	}
	_ = s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

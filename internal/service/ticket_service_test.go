package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

func TestCreateTicket_PlainCategory(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()

	ticket, vacation, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title:    "Broken laptop",
		Body:     "Screen stays black after boot.",
		Category: domain.CategoryHardware,
	})
	require.NoError(t, err)
	require.Nil(t, vacation)
	require.NotEmpty(t, ticket.ID)
	require.NotEmpty(t, ticket.Code)
	require.Equal(t, owner.ID, ticket.OwnerID)
	require.Nil(t, ticket.AgentID)
	require.Equal(t, domain.TicketStatusTodo, ticket.Status)

	require.Equal(t, []events.EventType{events.EventTicketCreated}, f.dispatcher.typesSeen())
}

func TestCreateTicket_VacationCategorySpawnsExactlyOneVacation(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()

	ticket, vacation, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title:    "Summer leave",
		Body:     "Two weeks in July.",
		Category: domain.CategoryVacations,
	})
	require.NoError(t, err)
	require.NotNil(t, vacation)
	require.Equal(t, ticket.ID, vacation.TicketID)
	require.Equal(t, owner.ID, vacation.OwnerID)
	require.Equal(t, domain.VacationStatusPending, vacation.Status)
	require.Nil(t, vacation.StartDate)
	require.Nil(t, vacation.EndDate)

	stored, err := f.vacations.GetByTicketID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Equal(t, vacation.ID, stored.ID)
}

func TestCreateTicket_RejectsBlankAndUnknownInput(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()

	_, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title:    "   ",
		Body:     "body",
		Category: domain.CategoryGeneral,
	})
	requireErrorCode(t, err, "VALIDATION_FAILED")

	_, _, err = f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title:    "title",
		Body:     "body",
		Category: "Gossip",
	})
	requireErrorCode(t, err, "VALIDATION_FAILED")
}

func TestTakeTicket_RequiresAgentRole(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "VPN down", Body: "Cannot connect since morning.", Category: domain.CategoryAccess,
	})
	require.NoError(t, err)

	_, err = f.service.TakeTicket(context.Background(), owner, ticket.Code)
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestTakeTicket_AssignsTicketAndLinkedVacation(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Leave request", Body: "October.", Category: domain.CategoryVacations,
	})
	require.NoError(t, err)

	taken, err := f.service.TakeTicket(context.Background(), agent, ticket.Code)
	require.NoError(t, err)
	require.NotNil(t, taken.AgentID)
	require.Equal(t, agent.ID, *taken.AgentID)

	vacation, err := f.vacations.GetByTicketID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, vacation.AgentID)
	require.Equal(t, agent.ID, *vacation.AgentID)
}

func TestTakeTicket_RetakeOverwritesAssignment(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	first := agentUser()
	second := agentUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Printer jam", Body: "Third floor printer.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)

	_, err = f.service.TakeTicket(context.Background(), first, ticket.Code)
	require.NoError(t, err)
	taken, err := f.service.TakeTicket(context.Background(), second, ticket.Code)
	require.NoError(t, err)
	require.Equal(t, second.ID, *taken.AgentID)
}

func TestTakeTicket_UnknownCode(t *testing.T) {
	f := newTicketFixture()
	_, err := f.service.TakeTicket(context.Background(), agentUser(), "HD-NOPE")
	requireErrorCode(t, err, "NOT_FOUND")
}

func TestDecideTicket_OnlyAssignedAgent(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	assigned := agentUser()
	other := agentUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "License", Body: "Need an IDE license.", Category: domain.CategorySoftware,
	})
	require.NoError(t, err)

	// Nobody assigned yet.
	_, err = f.service.DecideTicket(context.Background(), assigned, ticket.Code, domain.TicketStatusApproved)
	requireErrorCode(t, err, "FORBIDDEN")

	_, err = f.service.TakeTicket(context.Background(), assigned, ticket.Code)
	require.NoError(t, err)

	_, err = f.service.DecideTicket(context.Background(), other, ticket.Code, domain.TicketStatusApproved)
	requireErrorCode(t, err, "FORBIDDEN")

	decided, err := f.service.DecideTicket(context.Background(), assigned, ticket.Code, domain.TicketStatusApproved)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusApproved, decided.Status)
}

func TestDecideTicket_RejectsNonDecisionStatus(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Badge", Body: "Access badge lost.", Category: domain.CategoryAccess,
	})
	require.NoError(t, err)
	_, err = f.service.TakeTicket(context.Background(), agent, ticket.Code)
	require.NoError(t, err)

	_, err = f.service.DecideTicket(context.Background(), agent, ticket.Code, domain.TicketStatusTodo)
	requireErrorCode(t, err, "VALIDATION_FAILED")
}

func TestDecideTicket_RecordsHistory(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Monitor", Body: "Flickering monitor.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)
	_, err = f.service.TakeTicket(context.Background(), agent, ticket.Code)
	require.NoError(t, err)
	_, err = f.service.DecideTicket(context.Background(), agent, ticket.Code, domain.TicketStatusRejected)
	require.NoError(t, err)

	entries, err := f.history.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	var types []domain.TicketChangeType
	for _, entry := range entries {
		types = append(types, entry.ChangeType)
	}
	require.Contains(t, types, domain.ChangeTypeAgent)
	require.Contains(t, types, domain.ChangeTypeStatus)
}

func TestViewTicket_OwnerAndAssignedAgentOnly(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()
	stranger := regularUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Keyboard", Body: "Keys sticking.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)

	view, err := f.service.ViewTicket(context.Background(), owner, ticket.Code)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, view.Ticket.ID)

	// Unassigned agents and other users are denied alike.
	_, err = f.service.ViewTicket(context.Background(), agent, ticket.Code)
	requireErrorCode(t, err, "FORBIDDEN")
	_, err = f.service.ViewTicket(context.Background(), stranger, ticket.Code)
	requireErrorCode(t, err, "FORBIDDEN")

	_, err = f.service.TakeTicket(context.Background(), agent, ticket.Code)
	require.NoError(t, err)
	_, err = f.service.ViewTicket(context.Background(), agent, ticket.Code)
	require.NoError(t, err)
}

func TestViewTicketAt_DateMustMatchCreationDay(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	ticket, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Mouse", Body: "Left click broken.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)

	created := ticket.CreatedAt.UTC()
	view, err := f.service.ViewTicketAt(context.Background(), owner,
		created.Year(), int(created.Month()), created.Day(), ticket.Code)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, view.Ticket.ID)

	_, err = f.service.ViewTicketAt(context.Background(), owner,
		created.Year()-1, int(created.Month()), created.Day(), ticket.Code)
	requireErrorCode(t, err, "NOT_FOUND")
}

func TestListUnassigned(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()

	first, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Docking station", Body: "Does not charge.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)
	second, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Headset", Body: "No sound.", Category: domain.CategoryHardware,
	})
	require.NoError(t, err)
	_, err = f.service.TakeTicket(context.Background(), agent, first.Code)
	require.NoError(t, err)

	unassigned, err := f.service.ListUnassigned(context.Background(), agent, "")
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	require.Equal(t, second.ID, unassigned[0].ID)

	// Search narrows by title/body, case-insensitive.
	found, err := f.service.ListUnassigned(context.Background(), agent, "HEADSET")
	require.NoError(t, err)
	require.Len(t, found, 1)
	none, err := f.service.ListUnassigned(context.Background(), agent, "projector")
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = f.service.ListUnassigned(context.Background(), owner, "")
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestLoadDashboard_ScopesByRole(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	other := regularUser()
	agent := agentUser()

	mine, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "My ticket", Body: "Something broke.", Category: domain.CategoryGeneral,
	})
	require.NoError(t, err)
	theirs, _, err := f.service.CreateTicket(context.Background(), other, TicketCreateInput{
		Title: "Their ticket", Body: "Something else broke.", Category: domain.CategoryGeneral,
	})
	require.NoError(t, err)
	_, err = f.service.TakeTicket(context.Background(), agent, theirs.Code)
	require.NoError(t, err)

	ownerBoard, err := f.service.LoadDashboard(context.Background(), owner, DashboardOptions{})
	require.NoError(t, err)
	require.Len(t, ownerBoard.Tickets, 1)
	require.Equal(t, mine.ID, ownerBoard.Tickets[0].ID)

	agentBoard, err := f.service.LoadDashboard(context.Background(), agent, DashboardOptions{})
	require.NoError(t, err)
	require.Len(t, agentBoard.Tickets, 1)
	require.Equal(t, theirs.ID, agentBoard.Tickets[0].ID)

	unknown := &domain.User{ID: "x", Role: "SUPERUSER"}
	_, err = f.service.LoadDashboard(context.Background(), unknown, DashboardOptions{})
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestLoadDashboard_SplitsVacationsByStatus(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()

	pending, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Leave A", Body: "Pending one.", Category: domain.CategoryVacations,
	})
	require.NoError(t, err)
	approved, approvedVacation, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Leave B", Body: "Approved one.", Category: domain.CategoryVacations,
	})
	require.NoError(t, err)
	rejected, rejectedVacation, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Leave C", Body: "Rejected one.", Category: domain.CategoryVacations,
	})
	require.NoError(t, err)
	_ = pending

	approvedVacation.AgentID = &agent.ID
	approvedVacation.Status = domain.VacationStatusApproved
	require.NoError(t, f.vacations.Update(context.Background(), approvedVacation))
	rejectedVacation.AgentID = &agent.ID
	rejectedVacation.Status = domain.VacationStatusRejected
	require.NoError(t, f.vacations.Update(context.Background(), rejectedVacation))

	board, err := f.service.LoadDashboard(context.Background(), owner, DashboardOptions{})
	require.NoError(t, err)
	require.Len(t, board.PendingVacations, 1)
	require.Len(t, board.ApprovedVacations, 1)
	for _, vacation := range board.PendingVacations {
		require.NotEqual(t, approved.ID, vacation.TicketID)
		require.NotEqual(t, rejected.ID, vacation.TicketID)
	}
}

func TestLoadDashboard_StatusFilter(t *testing.T) {
	f := newTicketFixture()
	owner := regularUser()
	agent := agentUser()

	open, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Open", Body: "Still open.", Category: domain.CategoryGeneral,
	})
	require.NoError(t, err)
	done, _, err := f.service.CreateTicket(context.Background(), owner, TicketCreateInput{
		Title: "Done", Body: "Already handled.", Category: domain.CategoryGeneral,
	})
	require.NoError(t, err)
	_, err = f.service.TakeTicket(context.Background(), agent, done.Code)
	require.NoError(t, err)
	_, err = f.service.DecideTicket(context.Background(), agent, done.Code, domain.TicketStatusApproved)
	require.NoError(t, err)

	status := domain.TicketStatusTodo
	board, err := f.service.LoadDashboard(context.Background(), owner, DashboardOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, board.Tickets, 1)
	require.Equal(t, open.ID, board.Tickets[0].ID)
}

func requireErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, code, domainErr.Code)
}

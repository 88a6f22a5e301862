package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTicketStatus(t *testing.T) {
	for _, value := range []string{"TODO", "IN_PROGRESS", "APPROVED", "REJECTED"} {
		status, ok := ParseTicketStatus(value)
		require.True(t, ok, value)
		require.Equal(t, TicketStatus(value), status)
	}
	for _, value := range []string{"todo", "DONE", "", "TODO "} {
		_, ok := ParseTicketStatus(value)
		require.False(t, ok, value)
	}
}

func TestIsDecisionStatus(t *testing.T) {
	require.True(t, IsDecisionStatus(TicketStatusInProgress))
	require.True(t, IsDecisionStatus(TicketStatusApproved))
	require.True(t, IsDecisionStatus(TicketStatusRejected))
	require.False(t, IsDecisionStatus(TicketStatusTodo))
}

func TestParseTicketCategory(t *testing.T) {
	category, ok := ParseTicketCategory("Vacations")
	require.True(t, ok)
	require.Equal(t, CategoryVacations, category)

	_, ok = ParseTicketCategory("vacations")
	require.False(t, ok)
	_, ok = ParseTicketCategory("Gossip")
	require.False(t, ok)
}

func TestTicketVisibleTo(t *testing.T) {
	owner := &User{ID: "owner", Role: RoleRegular}
	agent := &User{ID: "agent", Role: RoleAgent}
	stranger := &User{ID: "stranger", Role: RoleRegular}

	ticket := &Ticket{OwnerID: owner.ID}
	require.True(t, ticket.VisibleTo(owner))
	require.False(t, ticket.VisibleTo(agent))
	require.False(t, ticket.VisibleTo(stranger))
	require.False(t, ticket.VisibleTo(nil))

	ticket.AgentID = &agent.ID
	require.True(t, ticket.VisibleTo(agent))
	require.False(t, ticket.VisibleTo(stranger))
}

func TestIsVacationRequest(t *testing.T) {
	require.True(t, (&Ticket{Category: CategoryVacations}).IsVacationRequest())
	require.False(t, (&Ticket{Category: CategoryHardware}).IsVacationRequest())
	var nilTicket *Ticket
	require.False(t, nilTicket.IsVacationRequest())
}

package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestTicketScopeFor(t *testing.T) {
	regular := regularUser()
	filter, err := TicketScopeFor(regular)
	require.NoError(t, err)
	require.NotNil(t, filter.OwnerID)
	require.Equal(t, regular.ID, *filter.OwnerID)
	require.Nil(t, filter.AgentID)

	agent := agentUser()
	filter, err = TicketScopeFor(agent)
	require.NoError(t, err)
	require.NotNil(t, filter.AgentID)
	require.Equal(t, agent.ID, *filter.AgentID)
	require.Nil(t, filter.OwnerID)
}

func TestTicketScopeFor_UnknownRoleDenied(t *testing.T) {
	_, err := TicketScopeFor(&domain.User{ID: "u1", Role: "ROOT"})
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestVacationScopeFor(t *testing.T) {
	regular := regularUser()
	filter, err := VacationScopeFor(regular)
	require.NoError(t, err)
	require.Equal(t, regular.ID, *filter.OwnerID)

	agent := agentUser()
	filter, err = VacationScopeFor(agent)
	require.NoError(t, err)
	require.Equal(t, agent.ID, *filter.AgentID)

	_, err = VacationScopeFor(&domain.User{ID: "u1", Role: ""})
	requireErrorCode(t, err, "FORBIDDEN")
}

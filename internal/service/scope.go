package service

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// The scope functions are the single place a principal is translated into a
// record filter. Regular users see what they own, agents see what is
// assigned to them, and an unrecognized role is denied outright. Callers
// never supply field names, operators or connectors; everything else in the
// filter comes from closed enum sets.

// TicketScopeFor derives the visible-ticket filter for a principal.
func TicketScopeFor(user *domain.User) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}
	switch user.Role {
	case domain.RoleRegular:
		filter.OwnerID = &user.ID
	case domain.RoleAgent:
		filter.AgentID = &user.ID
	default:
		return repository.TicketFilter{}, apperrors.NewForbidden("unrecognized role")
	}
	return filter, nil
}

// VacationScopeFor derives the visible-vacation filter for a principal.
func VacationScopeFor(user *domain.User) (repository.VacationFilter, error) {
	filter := repository.VacationFilter{}
	switch user.Role {
	case domain.RoleRegular:
		filter.OwnerID = &user.ID
	case domain.RoleAgent:
		filter.AgentID = &user.ID
	default:
		return repository.VacationFilter{}, apperrors.NewForbidden("unrecognized role")
	}
	return filter, nil
}

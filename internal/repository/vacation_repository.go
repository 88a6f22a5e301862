package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// VacationFilter captures listing parameters for vacations.
type VacationFilter struct {
	OwnerID  *string
	AgentID  *string
	Statuses []domain.VacationStatus
}

// VacationRepository encapsulates vacation persistence.
type VacationRepository interface {
	Create(ctx context.Context, vacation *domain.Vacation) error
	Update(ctx context.Context, vacation *domain.Vacation) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Vacation, error)
	ListWithFilter(ctx context.Context, filter VacationFilter) ([]domain.Vacation, error)
	WithTx(tx pgx.Tx) VacationRepository
}

type vacationRepository struct {
	db Querier
}

// NewVacationRepository instantiates repository.
func NewVacationRepository(pool *pgxpool.Pool) VacationRepository {
	return &vacationRepository{db: pool}
}

func (r *vacationRepository) WithTx(tx pgx.Tx) VacationRepository {
	return &vacationRepository{db: tx}
}

func (r *vacationRepository) Create(ctx context.Context, vacation *domain.Vacation) error {
	// The UNIQUE constraint on ticket_id enforces exactly one vacation per
	// vacation-category ticket.
	const query = `
        INSERT INTO vacations (ticket_id, owner_id, agent_id, status, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		vacation.TicketID,
		vacation.OwnerID,
		vacation.AgentID,
		vacation.Status,
		vacation.StartDate,
		vacation.EndDate,
	).Scan(&vacation.ID, &vacation.CreatedAt, &vacation.UpdatedAt)
}

func (r *vacationRepository) Update(ctx context.Context, vacation *domain.Vacation) error {
	const query = `
        UPDATE vacations SET agent_id=$1, status=$2, start_date=$3, end_date=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		vacation.AgentID,
		vacation.Status,
		vacation.StartDate,
		vacation.EndDate,
		vacation.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const vacationColumns = `id, ticket_id, owner_id, agent_id, status, start_date, end_date, created_at, updated_at`

func (r *vacationRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Vacation, error) {
	query := `SELECT ` + vacationColumns + ` FROM vacations WHERE ticket_id=$1`
	var vacation domain.Vacation
	if err := r.db.QueryRow(ctx, query, ticketID).Scan(
		&vacation.ID,
		&vacation.TicketID,
		&vacation.OwnerID,
		&vacation.AgentID,
		&vacation.Status,
		&vacation.StartDate,
		&vacation.EndDate,
		&vacation.CreatedAt,
		&vacation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &vacation, nil
}

func (r *vacationRepository) ListWithFilter(ctx context.Context, filter VacationFilter) ([]domain.Vacation, error) {
	base := `SELECT ` + vacationColumns + ` FROM vacations`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("agent_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vacation
	for rows.Next() {
		var vacation domain.Vacation
		if err := rows.Scan(
			&vacation.ID,
			&vacation.TicketID,
			&vacation.OwnerID,
			&vacation.AgentID,
			&vacation.Status,
			&vacation.StartDate,
			&vacation.EndDate,
			&vacation.CreatedAt,
			&vacation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, vacation)
	}
	return result, rows.Err()
}

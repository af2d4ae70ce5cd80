package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// SettlementFilter captures settlement search parameters.
type SettlementFilter struct {
	ProjectID *string
	Status    *domain.SettlementStatus
	Period    *string
	Year      *int
	Limit     int
	Offset    int
}

// MonthlySettlementTotal aggregates settlement amounts for one period.
type MonthlySettlementTotal struct {
	Period string
	Amount int64
	Paid   int64
}

// SettlementRepository persists settlements.
type SettlementRepository interface {
	Create(ctx context.Context, settlement *domain.Settlement) error
	Update(ctx context.Context, settlement *domain.Settlement) error
	GetByID(ctx context.Context, id string) (*domain.Settlement, error)
	List(ctx context.Context, filter SettlementFilter) ([]domain.Settlement, error)
	MonthlyTotals(ctx context.Context, year int, departmentID *string) ([]MonthlySettlementTotal, error)
}

type settlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository constructs repository.
func NewSettlementRepository(pool *pgxpool.Pool) SettlementRepository {
	return &settlementRepository{pool: pool}
}

const settlementColumns = `id, project_id, period, amount, status, invoiced_at, paid_at, notes, created_at, updated_at`

func (r *settlementRepository) Create(ctx context.Context, s *domain.Settlement) error {
	const query = `
        INSERT INTO settlements (project_id, period, amount, status, invoiced_at, paid_at, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		s.ProjectID,
		s.Period,
		s.Amount,
		s.Status,
		s.InvoicedAt,
		s.PaidAt,
		s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *settlementRepository) Update(ctx context.Context, s *domain.Settlement) error {
	const query = `
        UPDATE settlements SET period=$1, amount=$2, status=$3, invoiced_at=$4, paid_at=$5, notes=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		s.Period,
		s.Amount,
		s.Status,
		s.InvoicedAt,
		s.PaidAt,
		s.Notes,
		s.ID,
	).Scan(&s.UpdatedAt)
}

func (r *settlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	return scanSettlement(r.pool.QueryRow(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE id=$1`, id))
}

func (r *settlementRepository) List(ctx context.Context, filter SettlementFilter) ([]domain.Settlement, error) {
	var qb queryBuilder
	if filter.ProjectID != nil {
		qb.add("project_id=$%d", *filter.ProjectID)
	}
	if filter.Status != nil {
		qb.add("status=$%d", *filter.Status)
	}
	if filter.Period != nil {
		qb.add("period=$%d", *filter.Period)
	}
	if filter.Year != nil {
		qb.add("LEFT(period, 4)=$%d", strconv.Itoa(*filter.Year))
	}
	query := `SELECT ` + settlementColumns + ` FROM settlements` + qb.where() +
		` ORDER BY period DESC, created_at DESC` + pageClause(filter.Limit, filter.Offset, 100)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *settlementRepository) MonthlyTotals(ctx context.Context, year int, departmentID *string) ([]MonthlySettlementTotal, error) {
	query := `
        SELECT s.period,
               COALESCE(SUM(s.amount), 0)::bigint,
               COALESCE(SUM(s.amount) FILTER (WHERE s.status = 'paid'), 0)::bigint
        FROM settlements s
        JOIN projects p ON p.id = s.project_id
        WHERE LEFT(s.period, 4) = $1`
	args := []any{strconv.Itoa(year)}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += ` AND $2::uuid = ANY(p.department_ids)`
	}
	query += ` GROUP BY s.period ORDER BY s.period ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlySettlementTotal
	for rows.Next() {
		var total MonthlySettlementTotal
		if err := rows.Scan(&total.Period, &total.Amount, &total.Paid); err != nil {
			return nil, err
		}
		result = append(result, total)
	}
	return result, rows.Err()
}

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var s domain.Settlement
	if err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.Period,
		&s.Amount,
		&s.Status,
		&s.InvoicedAt,
		&s.PaidAt,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

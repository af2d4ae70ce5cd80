package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// StaffingRepository persists project staffing assignments.
type StaffingRepository interface {
	Create(ctx context.Context, staffing *domain.Staffing) error
	Update(ctx context.Context, staffing *domain.Staffing) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Staffing, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Staffing, error)
	ListByProjectFilter(ctx context.Context, filter ProjectFilter) ([]domain.Staffing, error)
}

type staffingRepository struct {
	pool *pgxpool.Pool
}

// NewStaffingRepository constructs repository.
func NewStaffingRepository(pool *pgxpool.Pool) StaffingRepository {
	return &staffingRepository{pool: pool}
}

const staffingColumns = `id, project_id, employee_id, external_name, role, grade, man_month, monthly_rate,
        start_date, end_date, notes, created_at, updated_at`

func (r *staffingRepository) Create(ctx context.Context, s *domain.Staffing) error {
	const query = `
        INSERT INTO staffings (project_id, employee_id, external_name, role, grade, man_month, monthly_rate, start_date, end_date, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		s.ProjectID,
		s.EmployeeID,
		s.ExternalName,
		s.Role,
		s.Grade,
		s.ManMonth,
		s.MonthlyRate,
		s.StartDate,
		s.EndDate,
		s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *staffingRepository) Update(ctx context.Context, s *domain.Staffing) error {
	const query = `
        UPDATE staffings SET employee_id=$1, external_name=$2, role=$3, grade=$4, man_month=$5, monthly_rate=$6,
            start_date=$7, end_date=$8, notes=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		s.EmployeeID,
		s.ExternalName,
		s.Role,
		s.Grade,
		s.ManMonth,
		s.MonthlyRate,
		s.StartDate,
		s.EndDate,
		s.Notes,
		s.ID,
	).Scan(&s.UpdatedAt)
}

func (r *staffingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staffings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffingRepository) GetByID(ctx context.Context, id string) (*domain.Staffing, error) {
	return scanStaffing(r.pool.QueryRow(ctx, `SELECT `+staffingColumns+` FROM staffings WHERE id=$1`, id))
}

func (r *staffingRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Staffing, error) {
	return r.list(ctx, `SELECT `+staffingColumns+` FROM staffings WHERE project_id=$1 ORDER BY created_at ASC`, projectID)
}

func (r *staffingRepository) ListByProjectFilter(ctx context.Context, filter ProjectFilter) ([]domain.Staffing, error) {
	qb := projectFilterClauses(filter)
	query := `SELECT ` + staffingColumns + ` FROM staffings WHERE project_id IN (SELECT id FROM projects` + qb.where() + `)`
	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	return collectStaffing(rows)
}

func (r *staffingRepository) list(ctx context.Context, query string, arg any) ([]domain.Staffing, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	return collectStaffing(rows)
}

func collectStaffing(rows pgx.Rows) ([]domain.Staffing, error) {
	defer rows.Close()

	var result []domain.Staffing
	for rows.Next() {
		s, err := scanStaffing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func scanStaffing(row pgx.Row) (*domain.Staffing, error) {
	var s domain.Staffing
	if err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.EmployeeID,
		&s.ExternalName,
		&s.Role,
		&s.Grade,
		&s.ManMonth,
		&s.MonthlyRate,
		&s.StartDate,
		&s.EndDate,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

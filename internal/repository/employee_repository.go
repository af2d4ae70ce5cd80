package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// EmployeeFilter defines query params for employee listing.
type EmployeeFilter struct {
	DepartmentID    *string
	EmploymentType  *domain.EmploymentType
	IncludeInactive bool
	SearchTerm      *string
	Limit           int
	Offset          int
}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository builds the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, department_id, grade, employment_type, is_active, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, department_id, grade, employment_type, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		emp.Name,
		emp.Email,
		emp.DepartmentID,
		emp.Grade,
		emp.EmploymentType,
		emp.IsActive,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees SET name=$1, email=$2, department_id=$3, grade=$4, employment_type=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		emp.Name,
		emp.Email,
		emp.DepartmentID,
		emp.Grade,
		emp.EmploymentType,
		emp.IsActive,
		emp.ID,
	).Scan(&emp.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id))
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	var qb queryBuilder
	if !filter.IncludeInactive {
		qb.addRaw("is_active = TRUE")
	}
	if filter.DepartmentID != nil {
		qb.add("department_id=$%d", *filter.DepartmentID)
	}
	if filter.EmploymentType != nil {
		qb.add("employment_type=$%d", *filter.EmploymentType)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		qb.add("LOWER(name) LIKE $%d", likePattern(*filter.SearchTerm))
	}
	query := `SELECT ` + employeeColumns + ` FROM employees` + qb.where() +
		` ORDER BY name ASC` + pageClause(filter.Limit, filter.Offset, 1000)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.DepartmentID,
		&emp.Grade,
		&emp.EmploymentType,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

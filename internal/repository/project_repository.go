package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// ProjectFilter captures project search parameters.
type ProjectFilter struct {
	Statuses     []domain.ProjectStatus
	Type         *domain.ProjectType
	DepartmentID *string
	ClientID     *string
	SearchTerm   *string
	Year         *int
	Limit        int
	Offset       int
}

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, code, name, type, status, client_id, department_ids::text[], sales_rep_id, pm_employee_id,
        pm_external_name, contract_amount, start_date, end_date, description, payment_schedules, created_by,
        created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (code, name, type, status, client_id, department_ids, sales_rep_id, pm_employee_id,
            pm_external_name, contract_amount, start_date, end_date, description, payment_schedules, created_by)
        VALUES ($1,$2,$3,$4,$5,$6::uuid[],$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		project.Code,
		project.Name,
		project.Type,
		project.Status,
		project.ClientID,
		project.DepartmentIDs,
		project.SalesRepID,
		project.PMEmployeeID,
		project.PMExternalName,
		project.ContractAmount,
		project.StartDate,
		project.EndDate,
		project.Description,
		schedulesOrEmpty(project.PaymentSchedules),
		project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, type=$2, status=$3, client_id=$4, department_ids=$5::uuid[], sales_rep_id=$6,
            pm_employee_id=$7, pm_external_name=$8, contract_amount=$9, start_date=$10, end_date=$11,
            description=$12, payment_schedules=$13, updated_at=NOW()
        WHERE id=$14
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		project.Name,
		project.Type,
		project.Status,
		project.ClientID,
		project.DepartmentIDs,
		project.SalesRepID,
		project.PMEmployeeID,
		project.PMExternalName,
		project.ContractAmount,
		project.StartDate,
		project.EndDate,
		project.Description,
		schedulesOrEmpty(project.PaymentSchedules),
		project.ID,
	).Scan(&project.UpdatedAt)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id=$1`, id))
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	qb := projectFilterClauses(filter)
	query := `SELECT ` + projectColumns + ` FROM projects` + qb.where() +
		` ORDER BY start_date DESC, created_at DESC` + pageClause(filter.Limit, filter.Offset, 20)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}

func (r *projectRepository) Count(ctx context.Context, filter ProjectFilter) (int, error) {
	qb := projectFilterClauses(filter)
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+qb.where(), qb.args...).Scan(&count)
	return count, err
}

func projectFilterClauses(filter ProjectFilter) *queryBuilder {
	qb := &queryBuilder{}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			qb.args = append(qb.args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(qb.args))
		}
		qb.addRaw(fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Type != nil {
		qb.add("type=$%d", *filter.Type)
	}
	if filter.DepartmentID != nil {
		qb.add("$%d::uuid = ANY(department_ids)", *filter.DepartmentID)
	}
	if filter.ClientID != nil {
		qb.add("client_id=$%d", *filter.ClientID)
	}
	if filter.Year != nil {
		qb.add("EXTRACT(YEAR FROM start_date) <= $%d", *filter.Year)
		qb.add("EXTRACT(YEAR FROM end_date) >= $%d", *filter.Year)
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		qb.add("(LOWER(name) LIKE $%[1]d OR LOWER(code) LIKE $%[1]d)", likePattern(*filter.SearchTerm))
	}
	return qb
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Code,
		&project.Name,
		&project.Type,
		&project.Status,
		&project.ClientID,
		&project.DepartmentIDs,
		&project.SalesRepID,
		&project.PMEmployeeID,
		&project.PMExternalName,
		&project.ContractAmount,
		&project.StartDate,
		&project.EndDate,
		&project.Description,
		&project.PaymentSchedules,
		&project.CreatedBy,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func schedulesOrEmpty(schedules []domain.PaymentSchedule) []domain.PaymentSchedule {
	if schedules == nil {
		return []domain.PaymentSchedule{}
	}
	return schedules
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// ExpenseRepository persists project expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Expense, error)
	ListByProjectFilter(ctx context.Context, filter ProjectFilter) ([]domain.Expense, error)
}

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository constructs repository.
func NewExpenseRepository(pool *pgxpool.Pool) ExpenseRepository {
	return &expenseRepository{pool: pool}
}

const expenseColumns = `id, project_id, category, amount, description, expense_date, created_at, updated_at`

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	const query = `
        INSERT INTO expenses (project_id, category, amount, description, expense_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		e.ProjectID,
		e.Category,
		e.Amount,
		e.Description,
		e.ExpenseDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *expenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	const query = `
        UPDATE expenses SET category=$1, amount=$2, description=$3, expense_date=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		e.Category,
		e.Amount,
		e.Description,
		e.ExpenseDate,
		e.ID,
	).Scan(&e.UpdatedAt)
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	return scanExpense(r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id))
}

func (r *expenseRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Expense, error) {
	return r.list(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE project_id=$1 ORDER BY expense_date ASC`, projectID)
}

func (r *expenseRepository) ListByProjectFilter(ctx context.Context, filter ProjectFilter) ([]domain.Expense, error) {
	qb := projectFilterClauses(filter)
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE project_id IN (SELECT id FROM projects` + qb.where() + `)`
	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	return collectExpense(rows)
}

func (r *expenseRepository) list(ctx context.Context, query string, arg any) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	return collectExpense(rows)
}

func collectExpense(rows pgx.Rows) ([]domain.Expense, error) {
	defer rows.Close()

	var result []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	if err := row.Scan(&e.ID, &e.ProjectID, &e.Category, &e.Amount, &e.Description, &e.ExpenseDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

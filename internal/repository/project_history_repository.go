package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// ProjectHistoryRepository stores audit entries.
type ProjectHistoryRepository interface {
	Create(ctx context.Context, history *domain.ProjectHistory) error
	ListByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.ProjectHistory, error)
}

type projectHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewProjectHistoryRepository builds repository.
func NewProjectHistoryRepository(pool *pgxpool.Pool) ProjectHistoryRepository {
	return &projectHistoryRepository{pool: pool}
}

func (r *projectHistoryRepository) Create(ctx context.Context, history *domain.ProjectHistory) error {
	const query = `
        INSERT INTO project_history (project_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		history.ProjectID,
		history.ChangedBy,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *projectHistoryRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.ProjectHistory, error) {
	query := `
        SELECT id, project_id, changed_by, change_type, old_value, new_value, created_at
        FROM project_history WHERE project_id=$1 ORDER BY created_at ASC` + pageClause(limit, offset, 100)
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProjectHistory
	for rows.Next() {
		var history domain.ProjectHistory
		if err := rows.Scan(
			&history.ID,
			&history.ProjectID,
			&history.ChangedBy,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

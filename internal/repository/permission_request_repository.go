package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// PermissionRequestFilter captures listing parameters.
type PermissionRequestFilter struct {
	RequesterID *string
	Status      *domain.PermissionRequestStatus
	Limit       int
	Offset      int
}

// PermissionRequestRepository persists role upgrade requests.
type PermissionRequestRepository interface {
	Create(ctx context.Context, req *domain.PermissionRequest) error
	Update(ctx context.Context, req *domain.PermissionRequest) error
	GetByID(ctx context.Context, id string) (*domain.PermissionRequest, error)
	GetPendingByRequester(ctx context.Context, requesterID string) (*domain.PermissionRequest, error)
	List(ctx context.Context, filter PermissionRequestFilter) ([]domain.PermissionRequest, error)
}

type permissionRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRequestRepository constructs repository.
func NewPermissionRequestRepository(pool *pgxpool.Pool) PermissionRequestRepository {
	return &permissionRequestRepository{pool: pool}
}

const permissionRequestColumns = `id, requester_id, current_role, requested_role, reason, status, reviewer_id,
        review_comment, reviewed_at, created_at, updated_at`

func (r *permissionRequestRepository) Create(ctx context.Context, req *domain.PermissionRequest) error {
	const query = `
        INSERT INTO permission_requests (requester_id, current_role, requested_role, reason, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.RequesterID,
		req.CurrentRole,
		req.RequestedRole,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *permissionRequestRepository) Update(ctx context.Context, req *domain.PermissionRequest) error {
	const query = `
        UPDATE permission_requests SET status=$1, reviewer_id=$2, review_comment=$3, reviewed_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		req.Status,
		req.ReviewerID,
		req.ReviewComment,
		req.ReviewedAt,
		req.ID,
	).Scan(&req.UpdatedAt)
}

func (r *permissionRequestRepository) GetByID(ctx context.Context, id string) (*domain.PermissionRequest, error) {
	return scanPermissionRequest(r.pool.QueryRow(ctx, `SELECT `+permissionRequestColumns+` FROM permission_requests WHERE id=$1`, id))
}

func (r *permissionRequestRepository) GetPendingByRequester(ctx context.Context, requesterID string) (*domain.PermissionRequest, error) {
	const query = `SELECT ` + permissionRequestColumns + ` FROM permission_requests
        WHERE requester_id=$1 AND status='pending' ORDER BY created_at DESC LIMIT 1`
	return scanPermissionRequest(r.pool.QueryRow(ctx, query, requesterID))
}

func (r *permissionRequestRepository) List(ctx context.Context, filter PermissionRequestFilter) ([]domain.PermissionRequest, error) {
	var qb queryBuilder
	if filter.RequesterID != nil {
		qb.add("requester_id=$%d", *filter.RequesterID)
	}
	if filter.Status != nil {
		qb.add("status=$%d", *filter.Status)
	}
	query := `SELECT ` + permissionRequestColumns + ` FROM permission_requests` + qb.where() +
		` ORDER BY created_at DESC` + pageClause(filter.Limit, filter.Offset, 50)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PermissionRequest
	for rows.Next() {
		req, err := scanPermissionRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func scanPermissionRequest(row pgx.Row) (*domain.PermissionRequest, error) {
	var req domain.PermissionRequest
	if err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.CurrentRole,
		&req.RequestedRole,
		&req.Reason,
		&req.Status,
		&req.ReviewerID,
		&req.ReviewComment,
		&req.ReviewedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

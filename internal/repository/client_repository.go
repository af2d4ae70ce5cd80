package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// ClientFilter defines query params for client listing.
type ClientFilter struct {
	IncludeInactive bool
	SearchTerm      *string
	Limit           int
	Offset          int
}

// ClientRepository manages client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository builds the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, name, business_number, contact_name, contact_email, contact_phone, notes, is_active, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, business_number, contact_name, contact_email, contact_phone, notes, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.BusinessNumber,
		client.ContactName,
		client.ContactEmail,
		client.ContactPhone,
		client.Notes,
		client.IsActive,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, business_number=$2, contact_name=$3, contact_email=$4, contact_phone=$5,
            notes=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.BusinessNumber,
		client.ContactName,
		client.ContactEmail,
		client.ContactPhone,
		client.Notes,
		client.IsActive,
		client.ID,
	).Scan(&client.UpdatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	return scanClient(r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE LOWER(name)=LOWER($1)`, name))
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	var qb queryBuilder
	if !filter.IncludeInactive {
		qb.addRaw("is_active = TRUE")
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		qb.add("LOWER(name) LIKE $%d", likePattern(*filter.SearchTerm))
	}
	query := `SELECT ` + clientColumns + ` FROM clients` + qb.where() +
		` ORDER BY name ASC` + pageClause(filter.Limit, filter.Offset, 500)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.BusinessNumber,
		&client.ContactName,
		&client.ContactEmail,
		&client.ContactPhone,
		&client.Notes,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// RateCardFilter defines query params for rate card listing.
type RateCardFilter struct {
	Year            *int
	Grade           *string
	IncludeInactive bool
}

// RateCardRepository manages rate card persistence.
type RateCardRepository interface {
	Create(ctx context.Context, card *domain.RateCard) error
	Update(ctx context.Context, card *domain.RateCard) error
	GetByID(ctx context.Context, id string) (*domain.RateCard, error)
	List(ctx context.Context, filter RateCardFilter) ([]domain.RateCard, error)
	FindActive(ctx context.Context, grade string, year int) (*domain.RateCard, error)
}

type rateCardRepository struct {
	pool *pgxpool.Pool
}

// NewRateCardRepository builds the repository.
func NewRateCardRepository(pool *pgxpool.Pool) RateCardRepository {
	return &rateCardRepository{pool: pool}
}

const rateCardColumns = `id, grade, year, monthly_rate, description, is_active, created_at, updated_at`

func (r *rateCardRepository) Create(ctx context.Context, card *domain.RateCard) error {
	const query = `
        INSERT INTO rate_cards (grade, year, monthly_rate, description, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		card.Grade,
		card.Year,
		card.MonthlyRate,
		card.Description,
		card.IsActive,
	).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
}

func (r *rateCardRepository) Update(ctx context.Context, card *domain.RateCard) error {
	const query = `
        UPDATE rate_cards SET grade=$1, year=$2, monthly_rate=$3, description=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		card.Grade,
		card.Year,
		card.MonthlyRate,
		card.Description,
		card.IsActive,
		card.ID,
	).Scan(&card.UpdatedAt)
}

func (r *rateCardRepository) GetByID(ctx context.Context, id string) (*domain.RateCard, error) {
	return scanRateCard(r.pool.QueryRow(ctx, `SELECT `+rateCardColumns+` FROM rate_cards WHERE id=$1`, id))
}

func (r *rateCardRepository) FindActive(ctx context.Context, grade string, year int) (*domain.RateCard, error) {
	const query = `SELECT ` + rateCardColumns + ` FROM rate_cards
        WHERE LOWER(grade)=LOWER($1) AND year=$2 AND is_active = TRUE`
	return scanRateCard(r.pool.QueryRow(ctx, query, grade, year))
}

func (r *rateCardRepository) List(ctx context.Context, filter RateCardFilter) ([]domain.RateCard, error) {
	var qb queryBuilder
	if !filter.IncludeInactive {
		qb.addRaw("is_active = TRUE")
	}
	if filter.Year != nil {
		qb.add("year=$%d", *filter.Year)
	}
	if filter.Grade != nil {
		qb.add("LOWER(grade)=LOWER($%d)", *filter.Grade)
	}
	query := `SELECT ` + rateCardColumns + ` FROM rate_cards` + qb.where() + ` ORDER BY year DESC, monthly_rate DESC`

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RateCard
	for rows.Next() {
		card, err := scanRateCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *card)
	}
	return result, rows.Err()
}

func scanRateCard(row pgx.Row) (*domain.RateCard, error) {
	var card domain.RateCard
	if err := row.Scan(
		&card.ID,
		&card.Grade,
		&card.Year,
		&card.MonthlyRate,
		&card.Description,
		&card.IsActive,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &card, nil
}

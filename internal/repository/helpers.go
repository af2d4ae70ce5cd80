package repository

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrNoRows is returned when a lookup matches nothing.
var ErrNoRows = pgx.ErrNoRows

// queryBuilder accumulates WHERE clauses with positional arguments.
type queryBuilder struct {
	clauses []string
	args    []any
}

func (b *queryBuilder) add(format string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(format, len(b.args)))
}

func (b *queryBuilder) addRaw(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *queryBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func pageClause(limit, offset, defaultLimit int) string {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

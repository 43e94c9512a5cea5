package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/msomdec/library-catalog/internal/domain"
)

// statsRepo implements domain.StatsRepository using SQLite.
type statsRepo struct {
	db *sqlx.DB
}

func (r *statsRepo) Get(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM books)                              AS total_books,
			(SELECT COALESCE(SUM(available_copies), 0) FROM books)    AS available_books,
			(SELECT COUNT(*) FROM users)                              AS total_users,
			(SELECT COUNT(*) FROM loans WHERE status = 'active')      AS active_loans`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	return &stats, nil
}

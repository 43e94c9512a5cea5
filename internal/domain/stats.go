package domain

import "context"

// Stats is the admin dashboard summary.
type Stats struct {
	TotalBooks     int `db:"total_books"`
	AvailableBooks int `db:"available_books"`
	TotalUsers     int `db:"total_users"`
	ActiveLoans    int `db:"active_loans"`
}

type StatsRepository interface {
	Get(ctx context.Context) (*Stats, error)
}

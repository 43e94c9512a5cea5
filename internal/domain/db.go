package domain

import "context"

// Database is the catalog store as a whole: its schema lifecycle plus the
// repositories bound to one shared connection pool.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error

	Users() UserRepository
	Books() BookRepository
	Loans() LoanRepository
	Stats() StatsRepository
}

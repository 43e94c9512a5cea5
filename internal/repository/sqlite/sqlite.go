package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/repository/sqlite/migrations"
)

// fnUnicodeLower lowercases text with full Unicode case mapping. SQLite's
// built-in lower() and LIKE only fold ASCII.
const fnUnicodeLower = "unicode_lower"

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(fnUnicodeLower, 1, unicodeLower)
}

func unicodeLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// DB wraps the SQLite connection pool and hands out repositories bound to it.
type DB struct {
	SqlDB *sql.DB
	x     *sqlx.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode, foreign keys and a busy timeout, and starts every
// transaction with an immediate write lock so that borrow and return
// serialize against each other.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids SQLITE_BUSY
	// churn and keeps the pragmas below in effect.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: sqlDB, x: sqlx.NewDb(sqlDB, "sqlite3")}, nil
}

func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_txlock", "immediate")
	q.Set("_time_format", "sqlite")
	return dbPath + "?" + q.Encode()
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return &userRepo{db: db.x}
}

func (db *DB) Books() domain.BookRepository {
	return &bookRepo{db: db.x}
}

func (db *DB) Loans() domain.LoanRepository {
	return &loanRepo{db: db.x}
}

func (db *DB) Stats() domain.StatsRepository {
	return &statsRepo{db: db.x}
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

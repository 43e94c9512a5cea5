package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/msomdec/library-catalog/internal/domain"
)

const userColumns = `id, email, full_name, password_hash, role, created_at`

// userRepo implements domain.UserRepository using SQLite.
type userRepo struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) domain.UserRepository {
	return db.Users()
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleStudent
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.FullName, user.Role, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &user, nil
}

// List returns every user, newest registration first.
func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateRole sets the stored role. An unknown id is not an error; the
// change is simply a no-op.
func (r *userRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

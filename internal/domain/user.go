package domain

import (
	"context"
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r names a known role.
func ValidRole(r string) bool {
	return r == string(RoleStudent) || r == string(RoleAdmin)
}

// User represents a registered library member or administrator.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}

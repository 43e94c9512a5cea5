package service

import (
	"context"
	"fmt"

	"github.com/msomdec/library-catalog/internal/domain"
)

// UserService handles admin user management.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns all users, newest first. Admin only.
func (s *UserService) List(ctx context.Context, caller domain.Principal) ([]domain.User, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdateRole changes a user's stored role. Admin only. Tokens already issued
// to that user keep their old role claim until the next login.
func (s *UserService) UpdateRole(ctx context.Context, caller domain.Principal, id int64, role string) error {
	if err := domain.RequireAdmin(caller); err != nil {
		return err
	}
	if role == "" {
		return fmt.Errorf("%w: missing role field", domain.ErrInvalidInput)
	}
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
	}
	return s.users.UpdateRole(ctx, id, domain.Role(role))
}

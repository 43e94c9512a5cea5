package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/service"
)

func TestUserService_List(t *testing.T) {
	auth, db := newTestAuthService(t)
	users := service.NewUserService(db.Users())
	ctx := context.Background()

	register(t, auth, "first@example.com", "")
	register(t, auth, "second@example.com", "")

	if _, err := users.List(ctx, studentCaller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for student, got %v", err)
	}

	list, err := users.List(ctx, adminCaller)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
	if list[0].Email != "second@example.com" {
		t.Fatalf("expected newest user first, got %s", list[0].Email)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	auth, db := newTestAuthService(t)
	users := service.NewUserService(db.Users())
	ctx := context.Background()

	user, _ := register(t, auth, "promote@example.com", "")

	if err := users.UpdateRole(ctx, adminCaller, user.ID, "admin"); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("expected stored role admin, got %s", stored.Role)
	}
}

func TestUserService_UpdateRole_Errors(t *testing.T) {
	auth, db := newTestAuthService(t)
	users := service.NewUserService(db.Users())
	ctx := context.Background()

	user, _ := register(t, auth, "target@example.com", "")

	tests := []struct {
		name   string
		caller domain.Principal
		role   string
		want   error
	}{
		{"student caller", studentCaller, "admin", domain.ErrForbidden},
		{"missing role", adminCaller, "", domain.ErrInvalidInput},
		{"unknown role", adminCaller, "librarian", domain.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := users.UpdateRole(ctx, tc.caller, user.ID, tc.role)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUserService_UpdateRole_UnknownUser(t *testing.T) {
	_, db := newTestAuthService(t)
	users := service.NewUserService(db.Users())

	if err := users.UpdateRole(context.Background(), adminCaller, 9999, "admin"); err != nil {
		t.Fatalf("expected unknown user to be a no-op, got %v", err)
	}
}

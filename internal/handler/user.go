package handler

import (
	"net/http"

	"github.com/msomdec/library-catalog/internal/service"
)

// UserHandler handles admin user management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList returns all users, newest first. Admin only.
// GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	users, err := h.users.List(r.Context(), p)
	if err != nil {
		writeServiceError(w, "list users", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toUserListItemDTOs(users))
}

// HandleUpdateRole changes a user's role. Admin only. An unknown id is
// accepted and changes nothing.
// PUT /api/users/{id}
// Request:  {"role":"admin"}
func (h *UserHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, _ := PrincipalFromContext(r.Context())

	var req struct {
		Role string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.UpdateRole(r.Context(), p, id, req.Role); err != nil {
		writeServiceError(w, "update user role", err, "")
		return
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

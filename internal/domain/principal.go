package domain

// Principal is the authenticated caller as described by the claims of its
// access token. The role is the one embedded at issuance; it is never
// re-read from storage, so a role change only applies after the next login.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

// IsAdmin reports whether the principal carries the admin role claim.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// RequireAdmin is the authorization check shared by every admin-only operation.
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// internal/acl/store.go
//
// Role lookup for the admin gate.
//
// Context
// -------
// RBAC in the storefront is a single flag on the user record:
//
//	user { email, role: "admin" | absent | anything else }
//
// Middleware needs one answer: which Role does the user with email X hold?
// `UserRole()` asks the user collection every time; there is no cache, so
// a revoked role takes effect on the next request.
//
// Notes
// -----
// • Any role string other than "admin" is RoleStandard.
// • Oxford commas, two spaces after periods.
package acl

import (
	"context"
	"errors"
	"strings"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Role is the two-valued access level.
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "standard"
}

// ParseRole maps a stored role value to a Role.
func ParseRole(v any) Role {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "admin" {
		return RoleAdmin
	}
	return RoleStandard
}

// ErrUnknownUser is returned when no user record carries the email.
var ErrUnknownUser = errors.New("acl: no user with that email")

// UserRole returns the role of the user whose "email" equals email.
func UserRole(ctx context.Context, users store.Collection, email string) (Role, error) {
	if email == "" {
		return RoleStandard, ErrUnknownUser
	}
	doc, err := users.FindOne(ctx, store.Match{Field: "email", Value: email})
	if errors.Is(err, store.ErrNotFound) {
		return RoleStandard, ErrUnknownUser
	}
	if err != nil {
		return RoleStandard, err
	}
	return ParseRole(doc["role"]), nil
}

// IsAdmin reports whether email belongs to an admin.  Unknown users are
// not admins and not an error.
func IsAdmin(ctx context.Context, users store.Collection, email string) (bool, error) {
	role, err := UserRole(ctx, users, email)
	if errors.Is(err, ErrUnknownUser) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

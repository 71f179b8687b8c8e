// Package rbac decides whether an authenticated user may perform an
// operation. Two paths exist: the permission path re-reads the user's
// current role from the store so a stale token can never grant more than
// the database says, and the role path decides purely from the token
// snapshot where a coarse role distinction is enough.
package rbac

import (
	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/token"
)

// Requirement is the per-operation access declaration, attached where the
// route is registered. Permissions combine with AND; Roles combine with
// OR.
type Requirement struct {
	Permissions []string
	Roles       []string
}

// PrincipalSource loads the current user record with role and permissions
// populated.
type PrincipalSource interface {
	FindByID(id uint) (*models.User, error)
}

// Engine evaluates permission requirements against live store state.
type Engine struct {
	users PrincipalSource
}

func NewEngine(users PrincipalSource) *Engine {
	return &Engine{users: users}
}

// Decide allows or denies a request that requires every permission in
// required.
//
// An empty requirement always allows, even without a principal. Otherwise
// the user's role and permissions are fetched fresh from the store: a
// missing user denies as unauthenticated, a roleless user as forbidden.
// The literal role name "admin" bypasses permission matching entirely;
// the comparison is exact and case-sensitive, and no other role gets a
// bypass no matter what it enumerates. All remaining roles must hold
// every required permission, matched as exact case-sensitive strings.
func (e *Engine) Decide(snap *token.Snapshot, required []string) error {
	if len(required) == 0 {
		return nil
	}
	if snap == nil {
		return apperr.Unauthenticated("Not authenticated")
	}

	user, err := e.users.FindByID(snap.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthenticated("User not found")
		}
		return err
	}
	if user.Role == nil {
		return apperr.Forbidden("You don't have a role assigned")
	}
	if user.Role.Name == models.RoleAdmin {
		return nil
	}

	held := make(map[string]struct{}, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		held[p.Name] = struct{}{}
	}
	for _, name := range required {
		if _, ok := held[name]; !ok {
			return apperr.Forbidden("You don't have permission to access this resource")
		}
	}
	return nil
}

// CheckRoles is the snapshot-only path: no database round trip, the
// token's embedded role decides. With no roles required it always allows;
// otherwise the snapshot's role must be one of them.
func CheckRoles(snap *token.Snapshot, required []string) error {
	if len(required) == 0 {
		return nil
	}
	if snap == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	if !snap.HasRole(required...) {
		return apperr.Forbidden("You don't have the required role to perform this action")
	}
	return nil
}

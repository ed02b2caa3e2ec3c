package security

import (
	"errors"

	"eblotter/api/internal/models"
)

// Authorization denials. Each maps to a 403 at the HTTP boundary.
var (
	ErrRoleForbidden    = errors.New("role forbidden")
	ErrNotOwner         = errors.New("not resource owner")
	ErrAccountSuspended = errors.New("account suspended")
)

// Actor is the authenticated principal a request acts as, resolved from
// verified token claims plus the principal's current account status.
type Actor struct {
	ID     string
	Role   models.Role
	Status models.AccountStatus
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Authorize is the single access-control decision point. It checks, in
// order: account status, role membership, then ownership. An empty
// requiredRoles slice means any authenticated role; an empty ownerID
// means the operation is not ownership-scoped. Admins bypass ownership.
//
// The guard is stateless and side-effect free; callers re-evaluate it on
// every request.
func Authorize(actor Actor, requiredRoles []models.Role, ownerID string) error {
	if actor.Status == models.AccountSuspended {
		return ErrAccountSuspended
	}

	if len(requiredRoles) > 0 {
		allowed := false
		for _, role := range requiredRoles {
			if actor.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrRoleForbidden
		}
	}

	if ownerID != "" && !actor.IsAdmin() && actor.ID != ownerID {
		return ErrNotOwner
	}

	return nil
}

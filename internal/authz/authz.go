// Package authz decides whether an acting principal may grant, change or
// remove a role in a house. The rule is a single ordered comparison: role
// ids rank privilege, smaller id = more privileged, and nobody hands out a
// role more powerful than the best one they themselves hold in that house.
package authz

import "context"

// Principal is the authenticated caller as resolved from the identity
// provider's token. Every operation takes it explicitly; there is no
// ambient "current user".
type Principal struct {
	ID      uint64
	Email   string
	IsAdmin bool
}

// RoleRanker resolves the most privileged active role a user holds in a
// house. The boolean reports whether any active role exists; an unenrolled
// user is a distinct outcome, not rank zero.
type RoleRanker interface {
	MostPrivilegedRole(ctx context.Context, userID, houseID uint64) (uint64, bool, error)
}

// Engine evaluates enrolment privilege checks against the role hierarchy.
type Engine struct {
	ranker RoleRanker
}

// NewEngine returns an Engine backed by the given ranker.
func NewEngine(ranker RoleRanker) *Engine {
	if ranker == nil {
		panic("nil ranker passed to NewEngine")
	}
	return &Engine{ranker: ranker}
}

// CanAssign reports whether the principal may enrol, update or un-enrol a
// user at the requested role in the given house. The same rule guards all
// three mutations:
//
//   - a platform admin is always allowed, enrolled in the house or not;
//   - a principal with no active enrolment in the house is never allowed
//     (treated as maximally unprivileged, not as rank zero);
//   - otherwise the principal's most privileged role id must be less than
//     or equal to the requested role id.
//
// The error return carries store failures from the rank lookup only; a
// denial is a false result, not an error.
func (e *Engine) CanAssign(ctx context.Context, p Principal, houseID, requestedRoleID uint64) (bool, error) {
	if p.IsAdmin {
		return true, nil
	}
	best, enrolled, err := e.ranker.MostPrivilegedRole(ctx, p.ID, houseID)
	if err != nil {
		return false, err
	}
	if !enrolled {
		return false, nil
	}
	return best <= requestedRoleID, nil
}

package user

import "errors"

// Role is the identity role carried in the JWT claims consumed by the
// engine. Token issuance lives outside this service.
type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve exceptions and leave
	RoleEmployee Role = "employee" // Regular employee
)

var ErrManagerAccessRequired = errors.New("manager access required")

// IsManager checks if the role is manager or owner.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}

// CanApprove checks if the role may resolve exception requests and leave
// requests within its company scope.
func (r Role) CanApprove() bool {
	return r.IsManager()
}

package user

// Actor is the authenticated caller identity attached to every request
// by the authentication layer: an ID plus a role, nothing more.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

package user

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin" // unrestricted access
	RoleUser  Role = "user"  // may only act on their own loans
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a library member or administrator.
type User struct {
	ID       int64  `json:"id"`    // ID is the unique identifier for the user
	Name     string `json:"name"`  // Name is the full name of the user
	Email    string `json:"email"` // Email is the unique, lowercased email address
	Password string `json:"-"`     // Password is the bcrypt hash, never serialized
	Role     Role   `json:"role"`  // Role is either admin or user
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

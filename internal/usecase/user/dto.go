package user

// CreateRequest represents the request payload for creating a new user.
type CreateRequest struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
	Role     string `validate:"omitempty,oneof=admin user"`
}

// UpdateRequest represents the request payload for updating an existing user.
// Nil fields are left untouched.
type UpdateRequest struct {
	ID       int64   `validate:"required"`
	Name     *string `validate:"omitempty,min=2,max=100"`
	Email    *string `validate:"omitempty,email"`
	Password *string `validate:"omitempty,min=6,max=72"`
	Role     *string `validate:"omitempty,oneof=admin user"`
}

// ListRequest represents the request payload for listing users.
// It supports pagination and search functionality.
type ListRequest struct {
	Query string
	Page  int64
	Limit int64
}

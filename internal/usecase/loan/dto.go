package loan

import "time"

// CreateRequest represents the request payload for creating a loan.
// Status is optional and defaults to pending.
type CreateRequest struct {
	BookID     int64     `validate:"required"`
	UserID     int64     `validate:"required"`
	LoanDate   time.Time `validate:"required"`
	ReturnDate time.Time `validate:"required"`
	Status     string
}

// UpdateRequest is the administrative partial-update payload. Only the
// fields listed here are mutable; nil fields are left untouched.
type UpdateRequest struct {
	ID         int64 `validate:"required"`
	BookID     *int64
	UserID     *int64
	LoanDate   *time.Time
	ReturnDate *time.Time
	Status     *string
}

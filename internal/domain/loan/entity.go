package loan

import (
	"time"

	"library-service/internal/domain/book"
	"library-service/internal/domain/user"
)

// Status is the lifecycle state of a loan.
type Status string

const (
	StatusPending  Status = "pending"
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusBorrowed, StatusReturned:
		return true
	}
	return false
}

// Loan records one book lent to one user with a tracked status and
// date range. The status transition invariant: entering borrowed
// decrements the referenced book's stock by one, leaving borrowed
// increments it by one, and a same-state transition adjusts nothing.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	Book       *book.Book `json:"book,omitempty"` // expanded on reads
	UserID     int64      `json:"user_id"`
	User       *user.User `json:"user,omitempty"` // expanded on reads
	LoanDate   time.Time  `json:"loan_date"`
	ReturnDate time.Time  `json:"return_date"`
	Status     Status     `json:"status"`
}

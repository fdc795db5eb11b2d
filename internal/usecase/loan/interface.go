package loan

import (
	"context"

	domain "library-service/internal/domain/loan"
	userdomain "library-service/internal/domain/user"
)

// Usecase defines the interface for the loan lifecycle operations.
type Usecase interface {
	Create(ctx context.Context, in CreateRequest, actor userdomain.Actor) (*domain.Loan, error)
	Get(ctx context.Context, id int64, actor userdomain.Actor) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Loan, error)
	Update(ctx context.Context, in UpdateRequest) (*domain.Loan, error)
	UpdateStatus(ctx context.Context, id int64, status string, actor userdomain.Actor) (*domain.Loan, error)
	Delete(ctx context.Context, id int64) error
}

package user

import (
	"context"

	"library-service/internal/domain/pagination"
	domain "library-service/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	Create(ctx context.Context, in CreateRequest) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, in UpdateRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, in ListRequest) ([]domain.User, *pagination.Pagination, error)
}

package author

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "library-service/internal/domain/author"
	apperrors "library-service/pkg/errors"
)

// Repository defines the interface for author data access operations.
// GetByID returns a typed NotFoundError when the author does not exist.
type Repository interface {
	Create(ctx context.Context, a *domain.Author) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Author, error)
	List(ctx context.Context) ([]domain.Author, error)
	Update(ctx context.Context, a *domain.Author) error
	Delete(ctx context.Context, id int64) error
}

// CreateRequest represents the request payload for creating an author.
type CreateRequest struct {
	Name      string `validate:"required,min=2,max=200"`
	Biography string `validate:"omitempty,max=5000"`
}

// UpdateRequest represents the request payload for updating an author.
// Nil fields are left untouched.
type UpdateRequest struct {
	ID        int64   `validate:"required"`
	Name      *string `validate:"omitempty,min=2,max=200"`
	Biography *string `validate:"omitempty,max=5000"`
}

// Usecase defines the interface for author business logic operations.
type Usecase interface {
	Create(ctx context.Context, in CreateRequest) (*domain.Author, error)
	Get(ctx context.Context, id int64) (*domain.Author, error)
	List(ctx context.Context) ([]domain.Author, error)
	Update(ctx context.Context, in UpdateRequest) (*domain.Author, error)
	Delete(ctx context.Context, id int64) error
}

type usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the author usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

func (uc *usecase) Create(ctx context.Context, in CreateRequest) (*domain.Author, error) {
	uc.log.Info("creating author", zap.String("name", in.Name))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	a := &domain.Author{Name: in.Name, Biography: in.Biography}

	id, err := uc.repo.Create(ctx, a)
	if err != nil {
		uc.log.Error("failed to create author", zap.Error(err))
		return nil, err
	}
	a.ID = id

	return a, nil
}

func (uc *usecase) Get(ctx context.Context, id int64) (*domain.Author, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "must be a positive integer")
	}
	return uc.repo.GetByID(ctx, id)
}

func (uc *usecase) List(ctx context.Context) ([]domain.Author, error) {
	return uc.repo.List(ctx)
}

func (uc *usecase) Update(ctx context.Context, in UpdateRequest) (*domain.Author, error) {
	uc.log.Info("updating author", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	a, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Biography != nil {
		a.Biography = *in.Biography
	}

	if err := uc.repo.Update(ctx, a); err != nil {
		uc.log.Error("failed to update author", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return a, nil
}

func (uc *usecase) Delete(ctx context.Context, id int64) error {
	uc.log.Info("deleting author", zap.Int64("id", id))

	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

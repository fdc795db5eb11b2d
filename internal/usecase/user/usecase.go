package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"library-service/internal/domain/pagination"
	domain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
	"library-service/pkg/security"
)

// Repository defines the interface for user data access operations.
// GetByID returns a typed NotFoundError when the user does not exist;
// GetByEmail returns (nil, nil) on a miss so callers can distinguish
// "absent" from "failed".
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, query string, page, limit int64) ([]domain.User, int64, error)
}

type usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the user usecase backed by the provided repository.
func New(r Repository, log *zap.Logger) Usecase {
	return &usecase{repo: r, log: log, validate: validator.New()}
}

// Create registers a new user after validating the request and checking
// email uniqueness. Emails are stored lowercased so uniqueness is
// case-insensitive; the password is stored as a bcrypt hash.
func (uc *usecase) Create(ctx context.Context, in CreateRequest) (*domain.User, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	email := strings.ToLower(in.Email)

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", email))
		return nil, apperrors.NewAlreadyExistsError("email", "email already exists")
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleUser
	}

	u := &domain.User{
		Name:     in.Name,
		Email:    email,
		Password: hash,
		Role:     role,
	}

	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	return u, nil
}

// Get retrieves a user by ID.
func (uc *usecase) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "must be a positive integer")
	}
	return uc.repo.GetByID(ctx, id)
}

// Update applies a partial update to an existing user. A changed email
// is re-checked for uniqueness and a changed password is re-hashed.
func (uc *usecase) Update(ctx context.Context, in UpdateRequest) (*domain.User, error) {
	uc.log.Info("updating user", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		if email != u.Email {
			existing, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				uc.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
				return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
			}
			if existing != nil && existing.ID != in.ID {
				uc.log.Warn("email already exists", zap.String("email", email), zap.Int64("existing_id", existing.ID))
				return nil, apperrors.NewAlreadyExistsError("email", "email already exists")
			}
		}
		u.Email = email
	}
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			uc.log.Error("failed to hash password", zap.Error(err))
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		u.Password = hash
	}
	if in.Role != nil {
		u.Role = domain.Role(*in.Role)
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return u, nil
}

// Delete removes a user by ID.
func (uc *usecase) Delete(ctx context.Context, id int64) error {
	uc.log.Info("deleting user", zap.Int64("id", id))

	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List retrieves a paginated list of users with optional search.
func (uc *usecase) List(ctx context.Context, in ListRequest) ([]domain.User, *pagination.Pagination, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	users, total, err := uc.repo.List(ctx, in.Query, in.Page, in.Limit)
	if err != nil {
		uc.log.Error("failed to list users", zap.String("query", in.Query), zap.Error(err))
		return nil, nil, err
	}

	return users, pagination.New(total, in.Page, in.Limit), nil
}

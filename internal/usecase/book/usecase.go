package book

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	authordomain "library-service/internal/domain/author"
	domain "library-service/internal/domain/book"
	"library-service/internal/domain/pagination"
	apperrors "library-service/pkg/errors"
)

// Repository defines the interface for book data access operations.
// GetByID returns a typed NotFoundError when the book does not exist
// and expands the author reference.
type Repository interface {
	Create(ctx context.Context, b *domain.Book) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, query string, page, limit int64) ([]domain.Book, int64, error)
	Update(ctx context.Context, b *domain.Book) error
	UpdateStock(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
}

// AuthorStore is the author lookup capability the book usecase consumes.
type AuthorStore interface {
	GetByID(ctx context.Context, id int64) (*authordomain.Author, error)
}

// Usecase defines the interface for book business logic operations.
type Usecase interface {
	Create(ctx context.Context, in CreateRequest) (*domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, in ListRequest) ([]domain.Book, *pagination.Pagination, error)
	Update(ctx context.Context, in UpdateRequest) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
}

type usecase struct {
	repo     Repository
	authors  AuthorStore
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the book usecase backed by the provided repository and
// author lookup.
func New(r Repository, authors AuthorStore, log *zap.Logger) Usecase {
	return &usecase{repo: r, authors: authors, log: log, validate: validator.New()}
}

// Create adds a book to the catalog after resolving its author.
func (uc *usecase) Create(ctx context.Context, in CreateRequest) (*domain.Book, error) {
	uc.log.Info("creating book", zap.String("title", in.Title), zap.Int64("author_id", in.AuthorID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	author, err := uc.authors.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	b := &domain.Book{
		Title:           in.Title,
		AuthorID:        author.ID,
		Author:          author,
		PublicationYear: in.PublicationYear,
		StockQuantity:   in.StockQuantity,
	}

	id, err := uc.repo.Create(ctx, b)
	if err != nil {
		uc.log.Error("failed to create book", zap.Error(err))
		return nil, err
	}
	b.ID = id

	return b, nil
}

// Get retrieves a book by ID with its author expanded.
func (uc *usecase) Get(ctx context.Context, id int64) (*domain.Book, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "must be a positive integer")
	}
	return uc.repo.GetByID(ctx, id)
}

// List retrieves a paginated list of books with optional title search.
func (uc *usecase) List(ctx context.Context, in ListRequest) ([]domain.Book, *pagination.Pagination, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	books, total, err := uc.repo.List(ctx, in.Query, in.Page, in.Limit)
	if err != nil {
		uc.log.Error("failed to list books", zap.String("query", in.Query), zap.Error(err))
		return nil, nil, err
	}

	return books, pagination.New(total, in.Page, in.Limit), nil
}

// Update applies a partial update using the explicit allow-list of
// mutable fields. A changed author is resolved before assignment;
// stock is not updatable here.
func (uc *usecase) Update(ctx context.Context, in UpdateRequest) (*domain.Book, error) {
	uc.log.Info("updating book", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	b, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.AuthorID != nil && *in.AuthorID != b.AuthorID {
		author, err := uc.authors.GetByID(ctx, *in.AuthorID)
		if err != nil {
			return nil, err
		}
		b.AuthorID = author.ID
		b.Author = author
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.PublicationYear != nil {
		b.PublicationYear = *in.PublicationYear
	}

	if err := uc.repo.Update(ctx, b); err != nil {
		uc.log.Error("failed to update book", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	return b, nil
}

// Delete removes a book from the catalog.
func (uc *usecase) Delete(ctx context.Context, id int64) error {
	uc.log.Info("deleting book", zap.Int64("id", id))

	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

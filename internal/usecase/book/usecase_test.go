package book_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	authordomain "library-service/internal/domain/author"
	domain "library-service/internal/domain/book"
	"library-service/internal/usecase/book"
	apperrors "library-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *domain.Book) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.Book, int64, error) {
	args := m.Called(ctx, query, page, limit)
	return args.Get(0).([]domain.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) UpdateStock(ctx context.Context, id int64, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthorStore is a mock implementation of the AuthorStore interface.
type MockAuthorStore struct {
	mock.Mock
}

func (m *MockAuthorStore) GetByID(ctx context.Context, id int64) (*authordomain.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authordomain.Author), args.Error(1)
}

func setupTestUsecase(t *testing.T) (book.Usecase, *MockRepository, *MockAuthorStore) {
	repo := new(MockRepository)
	authors := new(MockAuthorStore)
	uc := book.New(repo, authors, zaptest.NewLogger(t))
	return uc, repo, authors
}

var leGuin = &authordomain.Author{ID: 3, Name: "Ursula K. Le Guin"}

func TestCreateBook_Success(t *testing.T) {
	uc, repo, authors := setupTestUsecase(t)
	ctx := context.Background()

	authors.On("GetByID", ctx, int64(3)).Return(leGuin, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(b *domain.Book) bool {
		return b.Title == "The Dispossessed" && b.AuthorID == 3 && b.StockQuantity == 4
	})).Return(int64(10), nil)

	b, err := uc.Create(ctx, book.CreateRequest{
		Title:           "The Dispossessed",
		AuthorID:        3,
		PublicationYear: 1974,
		StockQuantity:   4,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), b.ID)
	assert.Equal(t, leGuin, b.Author)
	repo.AssertExpectations(t)
}

func TestCreateBook_UnknownAuthor(t *testing.T) {
	uc, repo, authors := setupTestUsecase(t)
	ctx := context.Background()

	authors.On("GetByID", ctx, int64(99)).
		Return(nil, apperrors.NewNotFoundError("author", "author not found"))

	_, err := uc.Create(ctx, book.CreateRequest{
		Title:           "Orphaned",
		AuthorID:        99,
		PublicationYear: 2000,
	})

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBook_NegativeStockRejected(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)

	_, err := uc.Create(context.Background(), book.CreateRequest{
		Title:           "Impossible",
		AuthorID:        3,
		PublicationYear: 2000,
		StockQuantity:   -1,
	})

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateBook_StockIsNotUpdatable(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.Book{ID: 10, Title: "Old Title", AuthorID: 3, PublicationYear: 1974, StockQuantity: 4}
	repo.On("GetByID", ctx, int64(10)).Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(b *domain.Book) bool {
		// Stock rides along unchanged through a metadata update.
		return b.Title == "New Title" && b.StockQuantity == 4
	})).Return(nil)

	title := "New Title"
	b, err := uc.Update(ctx, book.UpdateRequest{ID: 10, Title: &title})

	require.NoError(t, err)
	assert.Equal(t, 4, b.StockQuantity)
	repo.AssertExpectations(t)
}

func TestUpdateBook_ReassignedAuthorResolved(t *testing.T) {
	uc, repo, authors := setupTestUsecase(t)
	ctx := context.Background()

	existing := &domain.Book{ID: 10, Title: "The Dispossessed", AuthorID: 3, PublicationYear: 1974}
	borges := &authordomain.Author{ID: 5, Name: "Jorge Luis Borges"}
	repo.On("GetByID", ctx, int64(10)).Return(existing, nil)
	authors.On("GetByID", ctx, int64(5)).Return(borges, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(b *domain.Book) bool {
		return b.AuthorID == 5 && b.Author == borges
	})).Return(nil)

	newAuthor := int64(5)
	_, err := uc.Update(ctx, book.UpdateRequest{ID: 10, AuthorID: &newAuthor})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetBook_InvalidID(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)

	_, err := uc.Get(context.Background(), 0)

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestListBooks_ClampsPagination(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("List", ctx, "earthsea", int64(1), int64(100)).
		Return([]domain.Book{{ID: 1, Title: "A Wizard of Earthsea"}}, int64(1), nil)

	books, p, err := uc.List(ctx, book.ListRequest{Query: "earthsea", Page: -2, Limit: 5000})

	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, int64(1), p.Page)
	assert.Equal(t, int64(100), p.Limit)
	repo.AssertExpectations(t)
}

func TestDeleteBook_NotFound(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(404)).
		Return(nil, apperrors.NewNotFoundError("book", "book not found"))

	err := uc.Delete(ctx, 404)

	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

package loan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	bookdomain "library-service/internal/domain/book"
	domain "library-service/internal/domain/loan"
	userdomain "library-service/internal/domain/user"
	"library-service/internal/usecase/loan"
	apperrors "library-service/pkg/errors"
)

// MockRepository is a mock implementation of the loan Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, l *domain.Loan) (int64, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, l *domain.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookStore is a mock implementation of the BookStore interface.
type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) GetByID(ctx context.Context, id int64) (*bookdomain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookdomain.Book), args.Error(1)
}

func (m *MockBookStore) UpdateStock(ctx context.Context, id int64, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockUserStore is a mock implementation of the UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

func setupTestUsecase(t *testing.T) (loan.Usecase, *MockRepository, *MockBookStore, *MockUserStore) {
	repo := new(MockRepository)
	books := new(MockBookStore)
	users := new(MockUserStore)
	logger := zaptest.NewLogger(t)
	uc := loan.New(repo, books, users, logger)
	return uc, repo, books, users
}

var (
	admin  = userdomain.Actor{ID: 1, Role: userdomain.RoleAdmin}
	member = userdomain.Actor{ID: 7, Role: userdomain.RoleUser}

	loanDate   = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	returnDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func testBook(stock int) *bookdomain.Book {
	return &bookdomain.Book{ID: 10, Title: "The Dispossessed", AuthorID: 3, StockQuantity: stock}
}

func testUser(id int64) *userdomain.User {
	return &userdomain.User{ID: id, Name: "Reader", Email: "reader@example.com", Role: userdomain.RoleUser}
}

// ==================== CREATE TESTS ====================

func TestCreateLoan_DefaultsToPending(t *testing.T) {
	uc, repo, books, users := setupTestUsecase(t)
	ctx := context.Background()

	books.On("GetByID", ctx, int64(10)).Return(testBook(3), nil)
	users.On("GetByID", ctx, int64(7)).Return(testUser(7), nil)
	repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.StatusPending && l.BookID == 10 && l.UserID == 7
	})).Return(int64(42), nil)

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     7,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
	}, member)

	require.NoError(t, err)
	assert.Equal(t, int64(42), l.ID)
	assert.Equal(t, domain.StatusPending, l.Status)

	// A pending loan must not touch stock.
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestCreateLoan_BorrowedDecrementsStock(t *testing.T) {
	uc, repo, books, users := setupTestUsecase(t)
	ctx := context.Background()

	books.On("GetByID", ctx, int64(10)).Return(testBook(3), nil)
	users.On("GetByID", ctx, int64(7)).Return(testUser(7), nil)
	books.On("UpdateStock", ctx, int64(10), 2).Return(nil)
	repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.StatusBorrowed
	})).Return(int64(43), nil)

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     7,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Status:     "borrowed",
	}, member)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, l.Status)
	books.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCreateLoan_BorrowedOutOfStock(t *testing.T) {
	uc, repo, books, users := setupTestUsecase(t)
	ctx := context.Background()

	books.On("GetByID", ctx, int64(10)).Return(testBook(0), nil)
	users.On("GetByID", ctx, int64(7)).Return(testUser(7), nil)

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     7,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Status:     "borrowed",
	}, member)

	require.Error(t, err)
	assert.Nil(t, l)

	var oos *apperrors.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, int64(10), oos.BookID)

	// Nothing is persisted and no stock is written.
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLoan_InvalidStatus(t *testing.T) {
	uc, _, _, _ := setupTestUsecase(t)

	l, err := uc.Create(context.Background(), loan.CreateRequest{
		BookID:     10,
		UserID:     7,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Status:     "lost",
	}, admin)

	require.Error(t, err)
	assert.Nil(t, l)

	var invalid *apperrors.InvalidStatusError
	assert.ErrorAs(t, err, &invalid)
}

func TestCreateLoan_NonAdminLendsToSelf(t *testing.T) {
	uc, repo, books, users := setupTestUsecase(t)
	ctx := context.Background()

	// The payload names user 99; the non-admin caller is 7. The engine
	// silently substitutes the caller's own id.
	books.On("GetByID", ctx, int64(10)).Return(testBook(3), nil)
	users.On("GetByID", ctx, int64(7)).Return(testUser(7), nil)
	repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.UserID == 7
	})).Return(int64(44), nil)

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     99,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
	}, member)

	require.NoError(t, err)
	assert.Equal(t, int64(7), l.UserID)
	users.AssertNotCalled(t, "GetByID", mock.Anything, int64(99))
}

func TestCreateLoan_AdminLendsToAnyUser(t *testing.T) {
	uc, repo, books, users := setupTestUsecase(t)
	ctx := context.Background()

	books.On("GetByID", ctx, int64(10)).Return(testBook(3), nil)
	users.On("GetByID", ctx, int64(99)).Return(testUser(99), nil)
	repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.UserID == 99
	})).Return(int64(45), nil)

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     99,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
	}, admin)

	require.NoError(t, err)
	assert.Equal(t, int64(99), l.UserID)
}

func TestCreateLoan_BookNotFound(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	books.On("GetByID", ctx, int64(10)).Return(nil, apperrors.NewNotFoundError("book", "book with ID 10 not found"))

	l, err := uc.Create(ctx, loan.CreateRequest{
		BookID:     10,
		UserID:     1,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
	}, admin)

	require.Error(t, err)
	assert.Nil(t, l)

	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ==================== GET / ACCESS POLICY TESTS ====================

func TestGetLoan_OwnerAllowed(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 7, Status: domain.StatusPending}, nil)

	l, err := uc.Get(ctx, 5, member)
	require.NoError(t, err)
	assert.Equal(t, int64(5), l.ID)
}

func TestGetLoan_NonOwnerForbidden(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)

	l, err := uc.Get(ctx, 5, member)
	require.Error(t, err)
	assert.Nil(t, l)

	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestGetLoan_AdminReadsAny(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)

	l, err := uc.Get(ctx, 5, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.UserID)
}

// ==================== STATUS TRANSITION TESTS ====================

func TestUpdateStatus_PendingToBorrowed(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)
	books.On("GetByID", ctx, int64(10)).Return(testBook(2), nil)
	repo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.StatusBorrowed
	})).Return(nil)
	books.On("UpdateStock", ctx, int64(10), 1).Return(nil)

	l, err := uc.UpdateStatus(ctx, 5, "borrowed", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, l.Status)
	books.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_BorrowedToReturned(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	books.On("GetByID", ctx, int64(10)).Return(testBook(1), nil)
	books.On("UpdateStock", ctx, int64(10), 2).Return(nil)

	l, err := uc.UpdateStatus(ctx, 5, "returned", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, l.Status)
	books.AssertExpectations(t)
}

func TestUpdateStatus_SameStateIsIdempotent(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	l, err := uc.UpdateStatus(ctx, 5, "borrowed", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, l.Status)

	// A borrowed -> borrowed move never reads or writes stock.
	books.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_PendingToReturned_NoStockTouch(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	l, err := uc.UpdateStatus(ctx, 5, "returned", admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, l.Status)

	books.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_OutOfStockRejectedBeforePersisting(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)
	books.On("GetByID", ctx, int64(10)).Return(testBook(0), nil)

	l, err := uc.UpdateStatus(ctx, 5, "borrowed", admin)
	require.Error(t, err)
	assert.Nil(t, l)

	var oos *apperrors.OutOfStockError
	require.ErrorAs(t, err, &oos)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_RoundTripRestoresStock(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	// pending -> borrowed consumes one copy, borrowed -> returned gives
	// it back: the quantity ends exactly where it started.
	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil).Once()
	books.On("GetByID", ctx, int64(10)).Return(testBook(5), nil).Twice()
	repo.On("Update", ctx, mock.Anything).Return(nil).Twice()
	books.On("UpdateStock", ctx, int64(10), 4).Return(nil).Once()

	_, err := uc.UpdateStatus(ctx, 5, "borrowed", admin)
	require.NoError(t, err)

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil).Once()
	books.On("GetByID", ctx, int64(10)).Return(testBook(4), nil).Once()
	books.On("UpdateStock", ctx, int64(10), 5).Return(nil).Once()

	_, err = uc.UpdateStatus(ctx, 5, "returned", admin)
	require.NoError(t, err)

	books.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_NonAdminOtherUsersLoan(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)

	l, err := uc.UpdateStatus(ctx, 5, "returned", member)
	require.Error(t, err)
	assert.Nil(t, l)

	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	assert.Contains(t, err.Error(), "your own loans")
}

func TestUpdateStatus_NonAdminOnlyReturns(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 7, Status: domain.StatusPending}, nil)

	l, err := uc.UpdateStatus(ctx, 5, "borrowed", member)
	require.Error(t, err)
	assert.Nil(t, l)

	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_NonAdminReturnsOwnLoan(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 7, Status: domain.StatusBorrowed}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	books.On("GetByID", ctx, int64(10)).Return(testBook(0), nil)
	books.On("UpdateStock", ctx, int64(10), 1).Return(nil)

	l, err := uc.UpdateStatus(ctx, 5, "returned", member)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, l.Status)
	books.AssertExpectations(t)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)

	l, err := uc.UpdateStatus(ctx, 5, "misplaced", admin)
	require.Error(t, err)
	assert.Nil(t, l)

	var invalid *apperrors.InvalidStatusError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "misplaced", invalid.Status)
}

// ==================== ADMIN UPDATE TESTS ====================

func TestUpdateLoan_ReassignedBookReceivesAdjustment(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	// The update both moves the loan to book 20 and flips it to
	// borrowed; the stock adjustment lands on the new book.
	newBookID := int64(20)
	borrowed := "borrowed"
	newBook := &bookdomain.Book{ID: 20, Title: "Ficciones", AuthorID: 4, StockQuantity: 6}

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusPending}, nil)
	books.On("GetByID", ctx, int64(20)).Return(newBook, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.BookID == 20 && l.Status == domain.StatusBorrowed
	})).Return(nil)
	books.On("UpdateStock", ctx, int64(20), 5).Return(nil)

	l, err := uc.Update(ctx, loan.UpdateRequest{ID: 5, BookID: &newBookID, Status: &borrowed})
	require.NoError(t, err)
	assert.Equal(t, int64(20), l.BookID)
	assert.Equal(t, domain.StatusBorrowed, l.Status)

	books.AssertNotCalled(t, "UpdateStock", mock.Anything, int64(10), mock.Anything)
	books.AssertExpectations(t)
}

func TestUpdateLoan_BorrowedToPendingRestoresStockOnce(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	// Skipping returned entirely still counts as leaving borrowed, so
	// exactly one copy comes back.
	pending := "pending"

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)
	books.On("GetByID", ctx, int64(10)).Return(testBook(2), nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.StatusPending
	})).Return(nil)
	books.On("UpdateStock", ctx, int64(10), 3).Return(nil).Once()

	l, err := uc.Update(ctx, loan.UpdateRequest{ID: 5, Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, l.Status)

	books.AssertExpectations(t)
}

func TestUpdateLoan_DatesOnly_NoStockTouch(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	newReturn := returnDate.AddDate(0, 1, 0)

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.ReturnDate.Equal(newReturn)
	})).Return(nil)

	l, err := uc.Update(ctx, loan.UpdateRequest{ID: 5, ReturnDate: &newReturn})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, l.Status)

	books.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== DELETE TESTS ====================

func TestDeleteLoan_NeverRestoresStock(t *testing.T) {
	uc, repo, books, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(&domain.Loan{ID: 5, BookID: 10, UserID: 3, Status: domain.StatusBorrowed}, nil)
	repo.On("Delete", ctx, int64(5)).Return(nil)

	err := uc.Delete(ctx, 5)
	require.NoError(t, err)

	// Deleting a borrowed loan leaves the consumed copy consumed.
	books.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestDeleteLoan_NotFound(t *testing.T) {
	uc, repo, _, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(5)).Return(nil, apperrors.NewNotFoundError("loan", "loan with ID 5 not found"))

	err := uc.Delete(ctx, 5)
	require.Error(t, err)

	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

package loan

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	bookdomain "library-service/internal/domain/book"
	domain "library-service/internal/domain/loan"
	userdomain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
)

// Repository defines the interface for loan data access operations.
// GetByID returns a typed NotFoundError when the loan does not exist;
// reads expand the book and user references.
type Repository interface {
	Create(ctx context.Context, l *domain.Loan) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	List(ctx context.Context) ([]domain.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Loan, error)
	Update(ctx context.Context, l *domain.Loan) error
	Delete(ctx context.Context, id int64) error
}

// BookStore is the book lookup/stock capability the lifecycle engine
// consumes. UpdateStock writes an absolute quantity; the engine always
// reads the current stock immediately before computing the new value,
// so two transitions against one book are two independent
// read-modify-write steps. There is deliberately no locking around
// them (see DESIGN.md).
type BookStore interface {
	GetByID(ctx context.Context, id int64) (*bookdomain.Book, error)
	UpdateStock(ctx context.Context, id int64, quantity int) error
}

// UserStore is the user lookup capability the lifecycle engine consumes.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
}

type usecase struct {
	repo     Repository
	books    BookStore
	users    UserStore
	log      *zap.Logger
	validate *validator.Validate
}

// New creates the loan lifecycle usecase.
func New(r Repository, books BookStore, users UserStore, log *zap.Logger) Usecase {
	return &usecase{repo: r, books: books, users: users, log: log, validate: validator.New()}
}

// Create persists a new loan. A non-admin actor always lends to
// themselves: a foreign user_id in the payload is silently replaced by
// the actor's own id rather than rejected. If the requested immediate
// status is borrowed, the referenced book's stock is checked and
// decremented by one as part of creation.
func (uc *usecase) Create(ctx context.Context, in CreateRequest, actor userdomain.Actor) (*domain.Loan, error) {
	if !actor.IsAdmin() && in.UserID != actor.ID {
		uc.log.Info("substituting loan user with caller",
			zap.Int64("requested_user_id", in.UserID),
			zap.Int64("actor_id", actor.ID),
		)
		in.UserID = actor.ID
	}

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	status := domain.Status(in.Status)
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewInvalidStatusError(in.Status)
	}

	book, err := uc.books.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// An immediately-borrowed loan consumes a copy right away.
	if status == domain.StatusBorrowed {
		if !book.InStock() {
			uc.log.Warn("loan rejected, book out of stock", zap.Int64("book_id", book.ID))
			return nil, apperrors.NewOutOfStockError(book.ID)
		}
		if err := uc.books.UpdateStock(ctx, book.ID, book.StockQuantity-1); err != nil {
			return nil, err
		}
	}

	l := &domain.Loan{
		BookID:     book.ID,
		Book:       book,
		UserID:     user.ID,
		User:       user,
		LoanDate:   in.LoanDate,
		ReturnDate: in.ReturnDate,
		Status:     status,
	}

	id, err := uc.repo.Create(ctx, l)
	if err != nil {
		uc.log.Error("failed to create loan", zap.Error(err))
		return nil, err
	}
	l.ID = id

	uc.log.Info("loan created",
		zap.Int64("id", id),
		zap.Int64("book_id", book.ID),
		zap.Int64("user_id", user.ID),
		zap.String("status", string(status)),
	)
	return l, nil
}

// Get retrieves one loan. A non-admin actor may only read their own.
func (uc *usecase) Get(ctx context.Context, id int64, actor userdomain.Actor) (*domain.Loan, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && l.UserID != actor.ID {
		return nil, apperrors.NewForbiddenError("you can only access your own loans")
	}
	return l, nil
}

// List returns all loans with book and user expanded. Admin-gating
// happens at the HTTP boundary.
func (uc *usecase) List(ctx context.Context) ([]domain.Loan, error) {
	return uc.repo.List(ctx)
}

// ListByUser returns the loans belonging to one user.
func (uc *usecase) ListByUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	return uc.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves a loan to a new status, applying the paired stock
// adjustment. Ownership and role checks per the access policy: a
// non-admin may only move their own loan, and only to returned.
func (uc *usecase) UpdateStatus(ctx context.Context, id int64, status string, actor userdomain.Actor) (*domain.Loan, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && l.UserID != actor.ID {
		return nil, apperrors.NewForbiddenError("you can only update your own loans")
	}

	newStatus := domain.Status(status)
	if !newStatus.Valid() {
		return nil, apperrors.NewInvalidStatusError(status)
	}

	if !actor.IsAdmin() && newStatus != domain.StatusReturned {
		return nil, apperrors.NewForbiddenError("you can only mark your loans as returned")
	}

	oldStatus := l.Status
	if err := uc.checkStock(ctx, l.BookID, oldStatus, newStatus); err != nil {
		return nil, err
	}

	l.Status = newStatus
	if err := uc.repo.Update(ctx, l); err != nil {
		uc.log.Error("failed to update loan status", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if err := uc.applyStatusChange(ctx, l.BookID, oldStatus, newStatus); err != nil {
		return nil, err
	}

	uc.log.Info("loan status updated",
		zap.Int64("id", id),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)),
	)
	return l, nil
}

// Update applies an administrative partial update over the allow-listed
// fields. A status change applies the same stock rule as UpdateStatus
// but without the ownership restriction; the adjustment targets the
// loan's (possibly just reassigned) book.
func (uc *usecase) Update(ctx context.Context, in UpdateRequest) (*domain.Loan, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.FromValidator(err)
	}

	l, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.BookID != nil && *in.BookID != l.BookID {
		book, err := uc.books.GetByID(ctx, *in.BookID)
		if err != nil {
			return nil, err
		}
		l.BookID = book.ID
		l.Book = book
	}
	if in.UserID != nil && *in.UserID != l.UserID {
		user, err := uc.users.GetByID(ctx, *in.UserID)
		if err != nil {
			return nil, err
		}
		l.UserID = user.ID
		l.User = user
	}
	if in.LoanDate != nil {
		l.LoanDate = *in.LoanDate
	}
	if in.ReturnDate != nil {
		l.ReturnDate = *in.ReturnDate
	}

	oldStatus := l.Status
	newStatus := oldStatus
	if in.Status != nil {
		newStatus = domain.Status(*in.Status)
		if !newStatus.Valid() {
			return nil, apperrors.NewInvalidStatusError(*in.Status)
		}
	}

	if err := uc.checkStock(ctx, l.BookID, oldStatus, newStatus); err != nil {
		return nil, err
	}

	l.Status = newStatus
	if err := uc.repo.Update(ctx, l); err != nil {
		uc.log.Error("failed to update loan", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}

	if err := uc.applyStatusChange(ctx, l.BookID, oldStatus, newStatus); err != nil {
		return nil, err
	}

	return l, nil
}

// Delete removes the loan record. Stock adjustments already applied are
// deliberately not reversed (see DESIGN.md).
func (uc *usecase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}

	uc.log.Info("deleting loan", zap.Int64("id", id))
	return uc.repo.Delete(ctx, id)
}

// checkStock rejects a transition into borrowed while the book has no
// available copies, before anything is persisted.
func (uc *usecase) checkStock(ctx context.Context, bookID int64, oldStatus, newStatus domain.Status) error {
	if newStatus != domain.StatusBorrowed || oldStatus == domain.StatusBorrowed {
		return nil
	}

	book, err := uc.books.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.InStock() {
		uc.log.Warn("transition rejected, book out of stock", zap.Int64("book_id", bookID))
		return apperrors.NewOutOfStockError(bookID)
	}
	return nil
}

// applyStatusChange applies the inventory-adjustment contract: entering
// borrowed from any non-borrowed state decrements the book's stock by
// exactly one, leaving borrowed for any non-borrowed state increments
// it by exactly one, and a same-state transition adjusts nothing. The
// stock is re-read immediately before each mutation.
func (uc *usecase) applyStatusChange(ctx context.Context, bookID int64, oldStatus, newStatus domain.Status) error {
	if oldStatus == newStatus {
		return nil
	}

	switch {
	case newStatus == domain.StatusBorrowed:
		book, err := uc.books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.InStock() {
			return apperrors.NewOutOfStockError(bookID)
		}
		return uc.books.UpdateStock(ctx, bookID, book.StockQuantity-1)
	case oldStatus == domain.StatusBorrowed:
		book, err := uc.books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}
		return uc.books.UpdateStock(ctx, bookID, book.StockQuantity+1)
	}

	// pending <-> returned moves never touch stock.
	return nil
}

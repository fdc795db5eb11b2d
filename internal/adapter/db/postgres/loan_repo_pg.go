package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-service/internal/domain/loan"
	apperrors "library-service/pkg/errors"
)

// LoanRepoPG implements the loan Repository interface using GORM.
type LoanRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewLoanRepoPG creates a new instance of LoanRepoPG.
func NewLoanRepoPG(db *gorm.DB, log *zap.Logger) *LoanRepoPG {
	return &LoanRepoPG{db: db, log: log}
}

// LoanSchema represents the database schema for the loans table.
type LoanSchema struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	BookID     int64      `gorm:"not null;index"`
	Book       BookSchema `gorm:"foreignKey:BookID"`
	UserID     int64      `gorm:"not null;index"`
	User       UserSchema `gorm:"foreignKey:UserID"`
	LoanDate   time.Time  `gorm:"not null"`
	ReturnDate time.Time  `gorm:"not null"`
	Status     string     `gorm:"not null;default:pending"`
}

// TableName specifies the table name for the LoanSchema model.
func (LoanSchema) TableName() string {
	return "loans"
}

func (m *LoanSchema) toDomain() *loan.Loan {
	l := &loan.Loan{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		LoanDate:   m.LoanDate,
		ReturnDate: m.ReturnDate,
		Status:     loan.Status(m.Status),
	}
	if m.Book.ID != 0 {
		l.Book = m.Book.toDomain()
	}
	if m.User.ID != 0 {
		l.User = m.User.toDomain()
	}
	return l
}

// Create inserts a new loan into the database.
func (r *LoanRepoPG) Create(ctx context.Context, l *loan.Loan) (int64, error) {
	if l == nil {
		return 0, errors.New("loan cannot be nil")
	}

	model := LoanSchema{
		BookID:     l.BookID,
		UserID:     l.UserID,
		LoanDate:   l.LoanDate,
		ReturnDate: l.ReturnDate,
		Status:     string(l.Status),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create loan in db", zap.Error(err),
			zap.Int64("book_id", l.BookID), zap.Int64("user_id", l.UserID))
		return 0, fmt.Errorf("failed to create loan: %w", err)
	}

	r.log.Info("loan created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a loan by ID with its book, author and user expanded.
func (r *LoanRepoPG) GetByID(ctx context.Context, id int64) (*loan.Loan, error) {
	var model LoanSchema
	if err := r.db.WithContext(ctx).
		Preload("Book").Preload("Book.Author").Preload("User").
		First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("loan not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("loan", fmt.Sprintf("loan with ID %d not found", id))
		}
		r.log.Error("failed to get loan from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves all loans with their relations expanded.
func (r *LoanRepoPG) List(ctx context.Context) ([]loan.Loan, error) {
	var models []LoanSchema
	if err := r.db.WithContext(ctx).
		Preload("Book").Preload("Book.Author").Preload("User").
		Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list loans from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	loans := make([]loan.Loan, len(models))
	for i, model := range models {
		loans[i] = *model.toDomain()
	}

	return loans, nil
}

// ListByUser retrieves all loans belonging to a single user.
func (r *LoanRepoPG) ListByUser(ctx context.Context, userID int64) ([]loan.Loan, error) {
	var models []LoanSchema
	if err := r.db.WithContext(ctx).
		Preload("Book").Preload("Book.Author").Preload("User").
		Where("user_id = ?", userID).
		Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list loans by user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list loans for user: %w", err)
	}

	loans := make([]loan.Loan, len(models))
	for i, model := range models {
		loans[i] = *model.toDomain()
	}

	return loans, nil
}

// Update persists changes to an existing loan.
func (r *LoanRepoPG) Update(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return errors.New("loan cannot be nil")
	}

	updates := map[string]interface{}{
		"book_id":     l.BookID,
		"user_id":     l.UserID,
		"loan_date":   l.LoanDate,
		"return_date": l.ReturnDate,
		"status":      string(l.Status),
	}

	res := r.db.WithContext(ctx).Model(&LoanSchema{}).Where("id = ?", l.ID).Updates(updates)
	if res.Error != nil {
		r.log.Error("failed to update loan in db", zap.Error(res.Error), zap.Int64("id", l.ID))
		return fmt.Errorf("failed to update loan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("loan", fmt.Sprintf("loan with ID %d not found", l.ID))
	}

	r.log.Info("loan updated in db", zap.Int64("id", l.ID), zap.String("status", string(l.Status)))
	return nil
}

// Delete removes a loan from the database by ID. Deleting a loan does
// not touch the referenced book's stock.
func (r *LoanRepoPG) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid loan id")
	}

	res := r.db.WithContext(ctx).Delete(&LoanSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete loan in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete loan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("loan", fmt.Sprintf("loan with ID %d not found", id))
	}

	r.log.Info("loan deleted in db", zap.Int64("id", id))
	return nil
}

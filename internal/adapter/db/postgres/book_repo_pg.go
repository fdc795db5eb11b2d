package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-service/internal/domain/book"
	apperrors "library-service/pkg/errors"
	"library-service/pkg/security"
)

// BookRepoPG implements the book Repository interface using GORM.
type BookRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewBookRepoPG creates a new instance of BookRepoPG.
func NewBookRepoPG(db *gorm.DB, log *zap.Logger) *BookRepoPG {
	return &BookRepoPG{db: db, log: log}
}

// BookSchema represents the database schema for the books table.
type BookSchema struct {
	ID              int64        `gorm:"primaryKey;autoIncrement"`
	Title           string       `gorm:"not null"`
	AuthorID        int64        `gorm:"not null;index"`
	Author          AuthorSchema `gorm:"foreignKey:AuthorID"`
	PublicationYear int          `gorm:"not null"`
	StockQuantity   int          `gorm:"not null;default:0"`
}

// TableName specifies the table name for the BookSchema model.
func (BookSchema) TableName() string {
	return "books"
}

func (m *BookSchema) toDomain() *book.Book {
	b := &book.Book{
		ID:              m.ID,
		Title:           m.Title,
		AuthorID:        m.AuthorID,
		PublicationYear: m.PublicationYear,
		StockQuantity:   m.StockQuantity,
	}
	if m.Author.ID != 0 {
		b.Author = m.Author.toDomain()
	}
	return b
}

// Create inserts a new book into the database.
func (r *BookRepoPG) Create(ctx context.Context, b *book.Book) (int64, error) {
	if b == nil {
		return 0, errors.New("book cannot be nil")
	}

	model := BookSchema{
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		PublicationYear: b.PublicationYear,
		StockQuantity:   b.StockQuantity,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create book in db", zap.Error(err), zap.String("title", b.Title))
		return 0, fmt.Errorf("failed to create book: %w", err)
	}

	r.log.Info("book created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a book by ID with its author expanded.
func (r *BookRepoPG) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	var model BookSchema
	if err := r.db.WithContext(ctx).Preload("Author").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("book not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("book", fmt.Sprintf("book with ID %d not found", id))
		}
		r.log.Error("failed to get book from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves books with title search and pagination, authors expanded.
func (r *BookRepoPG) List(ctx context.Context, query string, page, limit int64) ([]book.Book, int64, error) {
	validated, err := security.ValidateSearchQuery(query)
	if err != nil {
		r.log.Warn("invalid search query", zap.String("query", query), zap.Error(err))
		return nil, 0, apperrors.NewValidationError("query", err.Error())
	}
	pattern := "%" + security.SanitizeSearchString(validated) + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&BookSchema{}).
		Where("title LIKE ?", pattern).
		Count(&total).Error; err != nil {
		r.log.Error("failed to count books", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var models []BookSchema
	if err := r.db.WithContext(ctx).Preload("Author").
		Where("title LIKE ?", pattern).
		Offset(int((page - 1) * limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list books from db", zap.Error(err), zap.String("query", query))
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]book.Book, len(models))
	for i, model := range models {
		books[i] = *model.toDomain()
	}

	return books, total, nil
}

// Update persists changes to an existing book, including its stock.
func (r *BookRepoPG) Update(ctx context.Context, b *book.Book) error {
	if b == nil {
		return errors.New("book cannot be nil")
	}

	updates := map[string]interface{}{
		"title":            b.Title,
		"author_id":        b.AuthorID,
		"publication_year": b.PublicationYear,
		"stock_quantity":   b.StockQuantity,
	}

	if err := r.db.WithContext(ctx).Model(&BookSchema{}).Where("id = ?", b.ID).
		Updates(updates).Error; err != nil {
		r.log.Error("failed to update book in db", zap.Error(err), zap.Int64("id", b.ID))
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.log.Info("book updated in db", zap.Int64("id", b.ID))
	return nil
}

// UpdateStock writes an absolute stock quantity for a book. This is the
// single write path for stock; callers read the current value
// immediately beforehand and there is no locking between the read and
// this write.
func (r *BookRepoPG) UpdateStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative: %d", quantity)
	}

	res := r.db.WithContext(ctx).Model(&BookSchema{}).Where("id = ?", id).
		Update("stock_quantity", quantity)
	if res.Error != nil {
		r.log.Error("failed to update book stock in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to update stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("book", fmt.Sprintf("book with ID %d not found", id))
	}

	r.log.Info("book stock updated", zap.Int64("id", id), zap.Int("quantity", quantity))
	return nil
}

// Delete removes a book from the database by ID.
func (r *BookRepoPG) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid book id")
	}

	if err := r.db.WithContext(ctx).Delete(&BookSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete book in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete book: %w", err)
	}

	r.log.Info("book deleted in db", zap.Int64("id", id))
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-service/internal/domain/author"
	apperrors "library-service/pkg/errors"
)

// AuthorRepoPG implements the author Repository interface using GORM.
type AuthorRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAuthorRepoPG creates a new instance of AuthorRepoPG.
func NewAuthorRepoPG(db *gorm.DB, log *zap.Logger) *AuthorRepoPG {
	return &AuthorRepoPG{db: db, log: log}
}

// AuthorSchema represents the database schema for the authors table.
type AuthorSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"not null"`
	Biography string `gorm:"type:text"`
}

// TableName specifies the table name for the AuthorSchema model.
func (AuthorSchema) TableName() string {
	return "authors"
}

func (m *AuthorSchema) toDomain() *author.Author {
	return &author.Author{
		ID:        m.ID,
		Name:      m.Name,
		Biography: m.Biography,
	}
}

// Create inserts a new author into the database.
func (r *AuthorRepoPG) Create(ctx context.Context, a *author.Author) (int64, error) {
	if a == nil {
		return 0, errors.New("author cannot be nil")
	}

	model := AuthorSchema{
		Name:      a.Name,
		Biography: a.Biography,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create author in db", zap.Error(err), zap.String("name", a.Name))
		return 0, fmt.Errorf("failed to create author: %w", err)
	}

	r.log.Info("author created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves an author from the database by their unique ID.
func (r *AuthorRepoPG) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	var model AuthorSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("author not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("author", fmt.Sprintf("author with ID %d not found", id))
		}
		r.log.Error("failed to get author from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves all authors.
func (r *AuthorRepoPG) List(ctx context.Context) ([]author.Author, error) {
	var models []AuthorSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list authors from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}

	authors := make([]author.Author, len(models))
	for i, model := range models {
		authors[i] = *model.toDomain()
	}
	return authors, nil
}

// Update persists changes to an existing author.
func (r *AuthorRepoPG) Update(ctx context.Context, a *author.Author) error {
	if a == nil {
		return errors.New("author cannot be nil")
	}

	model := AuthorSchema{
		ID:        a.ID,
		Name:      a.Name,
		Biography: a.Biography,
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to update author in db", zap.Error(err), zap.Int64("id", a.ID))
		return fmt.Errorf("failed to update author: %w", err)
	}

	r.log.Info("author updated in db", zap.Int64("id", model.ID))
	return nil
}

// Delete removes an author from the database by ID.
func (r *AuthorRepoPG) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid author id")
	}

	if err := r.db.WithContext(ctx).Delete(&AuthorSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete author in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete author: %w", err)
	}

	r.log.Info("author deleted in db", zap.Int64("id", id))
	return nil
}

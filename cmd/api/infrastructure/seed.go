package infrastructure

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-service/internal/adapter/db/postgres"
	"library-service/internal/config"
	"library-service/internal/domain/user"
	"library-service/pkg/security"
)

// Seed populates an empty database with an initial admin account and a
// small catalog. It only runs when SEED_DATA is set and skips anything
// that already exists, so restarts are safe.
func Seed(db *gorm.DB, cfg *config.Config, l *zap.Logger) error {
	if !cfg.App.SeedData {
		return nil
	}

	if err := seedAdmin(db, cfg, l); err != nil {
		return err
	}
	return seedCatalog(db, l)
}

func seedAdmin(db *gorm.DB, cfg *config.Config, l *zap.Logger) error {
	email := strings.ToLower(cfg.App.SeedAdminEmail)

	var count int64
	if err := db.Model(&postgres.UserSchema{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword(cfg.App.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := postgres.UserSchema{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     string(user.RoleAdmin),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	l.Info("seeded admin account", zap.String("email", email))
	return nil
}

func seedCatalog(db *gorm.DB, l *zap.Logger) error {
	var count int64
	if err := db.Model(&postgres.AuthorSchema{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check authors table: %w", err)
	}
	if count > 0 {
		return nil
	}

	authors := []postgres.AuthorSchema{
		{Name: "Ursula K. Le Guin", Biography: "American author of speculative fiction."},
		{Name: "Jorge Luis Borges", Biography: "Argentine short-story writer and essayist."},
	}
	if err := db.Create(&authors).Error; err != nil {
		return fmt.Errorf("failed to seed authors: %w", err)
	}

	books := []postgres.BookSchema{
		{Title: "The Dispossessed", AuthorID: authors[0].ID, PublicationYear: 1974, StockQuantity: 3},
		{Title: "The Left Hand of Darkness", AuthorID: authors[0].ID, PublicationYear: 1969, StockQuantity: 2},
		{Title: "Ficciones", AuthorID: authors[1].ID, PublicationYear: 1944, StockQuantity: 4},
	}
	if err := db.Create(&books).Error; err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}

	l.Info("seeded catalog", zap.Int("authors", len(authors)), zap.Int("books", len(books)))
	return nil
}

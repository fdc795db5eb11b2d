package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"library-service/internal/adapter/cache"
	domain "library-service/internal/domain/book"
	"library-service/internal/usecase/book"
)

// CachedBookRepository implements book.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Stock writes invalidate the cached entry so the lifecycle engine's
// fresh reads never see a stale quantity from this layer.
type CachedBookRepository struct {
	dbRepo book.Repository
	cache  cache.BookCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedBookRepository creates a new instance of CachedBookRepository.
func NewCachedBookRepository(dbRepo book.Repository, cache cache.BookCache, log *zap.Logger) book.Repository {
	return &CachedBookRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedBookRepository) Create(ctx context.Context, b *domain.Book) (int64, error) {
	return r.dbRepo.Create(ctx, b)
}

// GetByID retrieves a book by ID using Cache-Aside pattern.
func (r *CachedBookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedBook, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedBook != nil {
			r.log.Debug("book retrieved from cache", zap.Int64("id", id))
			return cachedBook, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("book:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedBook, err := r.cache.Get(ctx, id)
			if err == nil && cachedBook != nil {
				r.log.Debug("book retrieved from cache after single-flight wait", zap.Int64("id", id))
				return cachedBook, nil
			}
		}

		// Only one request hits database
		b, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Store in cache for future requests
		if r.cache != nil {
			if err := r.cache.Set(ctx, b); err != nil {
				r.log.Warn("failed to cache book", zap.Int64("id", id), zap.Error(err))
			}
		}

		return b, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.Book), nil
}

// List delegates to the DB repository.
func (r *CachedBookRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.Book, int64, error) {
	return r.dbRepo.List(ctx, query, page, limit)
}

// Update updates the book in DB and invalidates the cache.
func (r *CachedBookRepository) Update(ctx context.Context, b *domain.Book) error {
	if err := r.dbRepo.Update(ctx, b); err != nil {
		return err
	}

	// Invalidate cache after successful update
	if r.cache != nil {
		if err := r.cache.Delete(ctx, b.ID); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.Int64("id", b.ID), zap.Error(err))
		}
	}

	return nil
}

// UpdateStock writes the stock in DB and invalidates the cache.
func (r *CachedBookRepository) UpdateStock(ctx context.Context, id int64, quantity int) error {
	if err := r.dbRepo.UpdateStock(ctx, id, quantity); err != nil {
		return err
	}

	// Invalidate cache after successful stock write
	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after stock update", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

// Delete deletes the book from DB and invalidates the cache.
func (r *CachedBookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Invalidate cache after successful deletion
	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

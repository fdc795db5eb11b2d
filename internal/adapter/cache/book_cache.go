package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "library-service/internal/domain/book"
)

// BookCache defines the interface for book caching operations.
type BookCache interface {
	// Get retrieves a book from cache by ID.
	// Returns nil if the book is not found in cache.
	Get(ctx context.Context, id int64) (*domain.Book, error)

	// Set stores a book in cache with the configured TTL.
	Set(ctx context.Context, book *domain.Book) error

	// Delete removes a book from cache by ID.
	Delete(ctx context.Context, id int64) error
}

// RedisBookCache implements BookCache using Redis as the backing store.
type RedisBookCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisBookCache creates a new Redis-backed book cache.
func NewRedisBookCache(client *redis.Client, ttl time.Duration, log *zap.Logger) BookCache {
	return &RedisBookCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a book ID.
func (c *RedisBookCache) cacheKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

// Get retrieves a book from Redis cache.
func (c *RedisBookCache) Get(ctx context.Context, id int64) (*domain.Book, error) {
	key := c.cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.Int64("book_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("book_id", id), zap.Error(err))
		return nil, err
	}

	var book domain.Book
	if err := json.Unmarshal(data, &book); err != nil {
		c.log.Error("failed to unmarshal cached book", zap.Int64("book_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("book_id", id))
	return &book, nil
}

// Set stores a book in Redis cache with TTL.
func (c *RedisBookCache) Set(ctx context.Context, book *domain.Book) error {
	if book == nil {
		return fmt.Errorf("cannot cache nil book")
	}

	key := c.cacheKey(book.ID)

	data, err := json.Marshal(book)
	if err != nil {
		c.log.Error("failed to marshal book for cache", zap.Int64("book_id", book.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.Int64("book_id", book.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached book", zap.Int64("book_id", book.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a book from Redis cache.
func (c *RedisBookCache) Delete(ctx context.Context, id int64) error {
	key := c.cacheKey(id)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int64("book_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.Int64("book_id", id))
	return nil
}

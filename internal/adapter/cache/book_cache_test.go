package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "library-service/internal/domain/book"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisBookCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	logger := zaptest.NewLogger(t)
	cache := NewRedisBookCache(client, 5*time.Minute, logger)

	b := &domain.Book{ID: 1, Title: "Ficciones", AuthorID: 2, PublicationYear: 1944, StockQuantity: 4}

	err := cache.Set(context.Background(), b)
	require.NoError(t, err)

	data, err := client.Get(context.Background(), "book:1").Bytes()
	require.NoError(t, err)

	var cached domain.Book
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, b.Title, cached.Title)
	assert.Equal(t, b.StockQuantity, cached.StockQuantity)

	got, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)
}

func TestRedisBookCache_Set_NilBook(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisBookCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil book")
}

func TestRedisBookCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisBookCache(client, 5*time.Minute, zaptest.NewLogger(t))

	got, err := cache.Get(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisBookCache_Get_ExpiredTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisBookCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), &domain.Book{ID: 1, Title: "Ficciones"}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisBookCache_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisBookCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Book{ID: 1, Title: "Ficciones"}))
	require.NoError(t, cache.Delete(ctx, 1))

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

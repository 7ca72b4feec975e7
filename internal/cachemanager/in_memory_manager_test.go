package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type username string

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestNewInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[username, bool]("availability", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "valid_user1", true, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "valid_user1")
	require.True(t, ok)
	require.True(t, got)
}

func TestNewInMemoryCacheManager_KeysAreCaseSensitive(t *testing.T) {
	cache := NewInMemoryCacheManager[username, bool]("availability", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "Alice", false, DefaultExpiration)

	_, ok := cache.Get(context.Background(), "alice")
	require.False(t, ok)
}

func TestNewInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("food", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_Expires(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "food")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNewInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)

	err := cache.Delete(context.Background())
	require.NoError(t, err)
}

func TestNewInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", DefaultExpiration)
	cache.Set(context.Background(), "drink", "juice", DefaultExpiration)

	err := cache.Delete(context.Background(), "food")
	require.NoError(t, err)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Equal(t, "", got)

	_, ok = cache.Get(context.Background(), "drink")
	require.True(t, ok)
	require.Equal(t, 1, cache.Len())
}

func TestNewInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", DefaultExpiration)

	err := cache.Flush(context.Background())
	require.NoError(t, err)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Equal(t, "", got)
	require.Zero(t, cache.Len())
}

package tagger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Process(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestCachedService_MemoryCache(t *testing.T) {
	ctx := context.Background()
	svc := &mockService{}
	svc.On("Process", mock.Anything, "документ").Return("conllu", nil).Once()

	cached := NewCachedService(svc, NewMemoryCache(time.Minute), "model", nil)

	for i := 0; i < 3; i++ {
		out, err := cached.Process(ctx, "документ")
		require.NoError(t, err)
		assert.Equal(t, "conllu", out)
	}
	svc.AssertNumberOfCalls(t, "Process", 1)
}

func TestCachedService_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	svc := &mockService{}
	svc.On("Process", mock.Anything, "документ").Return("", errors.New("down")).Once()
	svc.On("Process", mock.Anything, "документ").Return("conllu", nil).Once()

	cached := NewCachedService(svc, NewMemoryCache(time.Minute), "model", nil)

	_, err := cached.Process(ctx, "документ")
	require.Error(t, err)
	out, err := cached.Process(ctx, "документ")
	require.NoError(t, err)
	assert.Equal(t, "conllu", out)
	svc.AssertExpectations(t)
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	cache := NewRedisCache(client, time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", "conllu"))
	v, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "conllu", v)
	assert.True(t, mr.Exists("courtdocs:tagger:k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedService_RedisFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	mr.Close()

	svc := &mockService{}
	svc.On("Process", mock.Anything, "документ").Return("conllu", nil)

	cached := NewCachedService(svc, NewRedisCache(client, time.Minute), "model", nil)
	out, err := cached.Process(ctx, "документ")
	require.NoError(t, err)
	assert.Equal(t, "conllu", out)
}

func TestCacheKey_DependsOnModel(t *testing.T) {
	assert.NotEqual(t, cacheKey("a", "text"), cacheKey("b", "text"))
	assert.Equal(t, cacheKey("a", "text"), cacheKey("a", "text"))
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/course-planner/pkg/errors"
)

func TestCacheRepositoryWithoutClientAlwaysMisses(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "planner:result:abc", map[string]int{"score": -200}, time.Minute))

	var dest map[string]int
	err := repo.Get(ctx, "planner:result:abc", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	removed, err := repo.DeleteByPattern(ctx, "planner:*")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewCacheRepository(client, nil)
	defer repo.Close()
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "planner:result:abc", &dest)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))

	assert.Error(t, repo.Set(ctx, "planner:result:abc", dest, time.Minute))
	assert.Error(t, repo.Ping(ctx))
}

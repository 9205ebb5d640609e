package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-planner/pkg/config"
)

func TestAddr(t *testing.T) {
	assert.Equal(t, "cache.internal:6380", Addr(config.RedisConfig{Host: "cache.internal", Port: 6380}))
}

func TestNewRedisFailsFastWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewRedis(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
	assert.Nil(t, client)
}

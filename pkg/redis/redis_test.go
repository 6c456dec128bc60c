package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestClient(t *testing.T) *Client {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping Redis integration test: set TEST_REDIS_HOST to run")
	}

	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Password = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.MaxRetries = 0

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestConfigAddr(t *testing.T) {
	cfg := &Config{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestComputeSHA1(t *testing.T) {
	sha := computeSHA1("return 1")
	assert.Len(t, sha, 40)
	assert.Equal(t, sha, computeSHA1("return 1"))
	assert.NotEqual(t, sha, computeSHA1("return 2"))
}

func TestIsNoScriptError(t *testing.T) {
	assert.True(t, isNoScriptError(errors.New("NOSCRIPT No matching script. Please use EVAL.")))
	assert.False(t, isNoScriptError(errors.New("ERR wrong number of arguments")))
	assert.False(t, isNoScriptError(nil))
}

func TestNewClientUnreachable(t *testing.T) {
	cfg := &Config{
		Host:          "invalid-host-that-does-not-exist",
		Port:          9999,
		MaxRetries:    0,
		RetryInterval: 10 * time.Millisecond,
		DialTimeout:   200 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, cfg)
	assert.Error(t, err)
}

func TestLockIntegration(t *testing.T) {
	client := getTestClient(t)
	ctx := context.Background()
	key := "test:lock:" + time.Now().Format("150405.000000")

	require.NoError(t, client.AcquireLock(ctx, key, "owner-a", time.Second, 0))

	err := client.AcquireLock(ctx, key, "owner-b", time.Second, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// Releasing with the wrong token leaves the lock in place
	require.NoError(t, client.ReleaseLock(ctx, key, "owner-b"))
	assert.Equal(t, "owner-a", client.Get(ctx, key).Val())

	require.NoError(t, client.ReleaseLock(ctx, key, "owner-a"))
	require.NoError(t, client.AcquireLock(ctx, key, "owner-b", time.Second, 0))
	require.NoError(t, client.ReleaseLock(ctx, key, "owner-b"))
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_Unlimited(t *testing.T) {
	hl := NewHostLimiter(0, 0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, hl.Wait(ctx, "https://shop.example.com/products/a"))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestHostLimiter_PerHostBuckets(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, hl.Wait(ctx, "https://shop.example.com/a"))
	require.NoError(t, hl.Wait(ctx, "https://cdn.example.com/b.jpg"))
	assert.Equal(t, 2, hl.Hosts())
}

func TestHostLimiter_ContextCancelled(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, hl.Wait(ctx, "https://shop.example.com/a"))
	cancel()
	assert.Error(t, hl.Wait(ctx, "https://shop.example.com/b"))
}

func TestHostLimiter_InvalidURL(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	assert.NoError(t, hl.Wait(context.Background(), "://bad"))
	assert.Equal(t, 0, hl.Hosts())
}

package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasbase/saasbase/pkg/tenant"
)

func TestMemoryRouteCache(t *testing.T) {
	t.Parallel()

	acme := &tenant.Route{Subdomain: "acme", Name: "Acme Inc", ConnTarget: "postgres://db/tenant_acme"}

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCache()
		defer cache.Close()
		ctx := context.Background()

		cache.Set(ctx, "acme", acme, time.Minute)

		got, ok := cache.Get(ctx, "acme")
		require.True(t, ok)
		assert.Equal(t, acme, got)
	})

	t.Run("miss for unknown subdomain", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCache()
		defer cache.Close()

		_, ok := cache.Get(context.Background(), "ghost")
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCache()
		defer cache.Close()
		ctx := context.Background()

		cache.Set(ctx, "acme", acme, 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)

		_, ok := cache.Get(ctx, "acme")
		assert.False(t, ok)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCache()
		defer cache.Close()
		ctx := context.Background()

		cache.Set(ctx, "acme", acme, time.Minute)
		cache.Delete(ctx, "acme")

		_, ok := cache.Get(ctx, "acme")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCacheWithSize(3)
		defer cache.Close()
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			label := fmt.Sprintf("tenant%d", i)
			cache.Set(ctx, label, &tenant.Route{Subdomain: label}, time.Minute)
		}

		// Touch tenant0 so tenant1 becomes the eviction candidate.
		_, ok := cache.Get(ctx, "tenant0")
		require.True(t, ok)

		cache.Set(ctx, "tenant3", &tenant.Route{Subdomain: "tenant3"}, time.Minute)

		_, ok = cache.Get(ctx, "tenant1")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "tenant0")
		assert.True(t, ok)
		_, ok = cache.Get(ctx, "tenant3")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryRouteCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

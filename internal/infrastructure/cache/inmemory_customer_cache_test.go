package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCustomerCache(t *testing.T) {
	ctx := context.Background()

	t.Run("get after put", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)

		cust := &customer.Customer{ID: "c-1", LastName: "Mueller"}
		c.Put(ctx, "c-1", cust)

		got, ok := c.Get(ctx, "c-1")
		require.True(t, ok)
		assert.Equal(t, cust, got)
	})

	t.Run("miss for unknown id", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)

		got, ok := c.Get(ctx, "ghost")
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewInMemoryCustomerCache(10 * time.Millisecond)

		c.Put(ctx, "c-1", &customer.Customer{ID: "c-1"})
		time.Sleep(20 * time.Millisecond)

		_, ok := c.Get(ctx, "c-1")
		assert.False(t, ok)
	})

	t.Run("evict removes the entry", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)

		c.Put(ctx, "c-1", &customer.Customer{ID: "c-1"})
		c.Evict(ctx, "c-1")

		_, ok := c.Get(ctx, "c-1")
		assert.False(t, ok)
	})

	t.Run("evicting an absent id is harmless", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)
		c.Evict(ctx, "ghost")
	})

	t.Run("close stops the cleanup goroutine", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)

		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		// the cache itself keeps working after close
		c.Put(ctx, "c-1", &customer.Customer{ID: "c-1"})
		_, ok := c.Get(ctx, "c-1")
		assert.True(t, ok)
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewInMemoryCustomerCache(time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Put(ctx, "shared", &customer.Customer{ID: "shared"})
				c.Get(ctx, "shared")
				c.Evict(ctx, "shared")
			}()
		}
		wg.Wait()
	})
}

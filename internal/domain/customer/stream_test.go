package customer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("drains all produced items", func(t *testing.T) {
		st := Produce(ctx, func(ctx context.Context, emit func(Customer) bool) error {
			for _, id := range []string{"a", "b", "c"} {
				if !emit(Customer{ID: id}) {
					return nil
				}
			}
			return nil
		})

		got, err := st.Collect(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("producer error surfaces after drain", func(t *testing.T) {
		boom := errors.New("cursor broke")
		st := Produce(ctx, func(ctx context.Context, emit func(Customer) bool) error {
			emit(Customer{ID: "a"})
			return boom
		})

		got, err := st.Collect(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, got, 1)
	})

	t.Run("deadline maps to timeout error", func(t *testing.T) {
		st := Produce(ctx, func(ctx context.Context, emit func(Customer) bool) error {
			return context.DeadlineExceeded
		})

		_, err := st.Collect(ctx)
		assert.ErrorIs(t, err, shared.ErrTimeout)
	})
}

func TestStream_Close(t *testing.T) {
	t.Run("stops the producer early", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var produced atomic.Int32
		st := Produce(ctx, func(ctx context.Context, emit func(Customer) bool) error {
			for i := 0; ; i++ {
				if !emit(Customer{}) {
					return nil
				}
				produced.Add(1)
			}
		})

		<-st.Chan()
		cancel()
		st.Close()

		assert.Eventually(t, func() bool {
			n := produced.Load()
			time.Sleep(10 * time.Millisecond)
			return produced.Load() == n
		}, time.Second, 20*time.Millisecond)
	})

	t.Run("runs bound cancels exactly once", func(t *testing.T) {
		var calls atomic.Int32
		st := Of(Customer{ID: "a"})
		st.BindCancel(func() { calls.Add(1) })

		st.Close()
		st.Close()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("binding after close cancels immediately", func(t *testing.T) {
		st := Of()
		st.Close()

		var called atomic.Bool
		st.BindCancel(func() { called.Store(true) })
		assert.True(t, called.Load())
	})
}

func TestStream_Empty(t *testing.T) {
	st := Empty()

	got, err := st.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStream_CollectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pctx, pcancel := context.WithCancel(context.Background())
	defer pcancel()
	blocked := Produce(pctx, func(pctx context.Context, emit func(Customer) bool) error {
		<-pctx.Done()
		return nil
	})
	defer blocked.Close()

	_, err := blocked.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

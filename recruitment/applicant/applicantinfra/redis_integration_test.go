//go:build integration

package applicantinfra

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/testutil/containers"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	t.Run("second holder waits then gives up", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		locker := NewRedisLocker(rc.Client, "test:lock:", time.Second, 100*time.Millisecond)

		unlock, err := locker.Acquire(ctx, "alloc:p-1:Picker")
		require.NoError(t, err)

		_, err = locker.Acquire(ctx, "alloc:p-1:Picker")
		assert.True(t, errx.IsCode(err, applicant.CodeAllocationBusy))

		require.NoError(t, unlock(ctx))

		unlock, err = locker.Acquire(ctx, "alloc:p-1:Picker")
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		locker := NewRedisLocker(rc.Client, "test:lock:", time.Second, 50*time.Millisecond)

		a, err := locker.Acquire(ctx, "alloc:p-1:Picker")
		require.NoError(t, err)
		b, err := locker.Acquire(ctx, "alloc:p-1:Packer")
		require.NoError(t, err)

		require.NoError(t, a(ctx))
		require.NoError(t, b(ctx))
	})

	t.Run("expired lock is not released by its old holder", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		locker := NewRedisLocker(rc.Client, "test:lock:", 100*time.Millisecond, time.Second)

		stale, err := locker.Acquire(ctx, "k")
		require.NoError(t, err)

		// waits for the TTL to lapse
		fresh, err := locker.Acquire(ctx, "k")
		require.NoError(t, err)

		require.NoError(t, stale(ctx))
		exists, err := rc.Client.Exists(ctx, "test:lock:k").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)

		require.NoError(t, fresh(ctx))
	})

	t.Run("serializes critical sections", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		locker := NewRedisLocker(rc.Client, "test:lock:", 5*time.Second, 5*time.Second)

		var (
			wg      sync.WaitGroup
			inside  atomic.Int32
			overlap atomic.Bool
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Acquire(ctx, "shared")
				if !assert.NoError(t, err) {
					return
				}
				if inside.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(10 * time.Millisecond)
				inside.Add(-1)
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.False(t, overlap.Load())
	})
}

func TestRedisQueue(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	queue := NewRedisQueue(rc.Client, "test:applicant-events")
	ctx := context.Background()

	t.Run("publish then dequeue", func(t *testing.T) {
		require.NoError(t, queue.Clear(ctx))

		require.NoError(t, queue.Publish(ctx, applicant.Event{ID: "e-1", Type: applicant.EventApplicantRegistered}))
		size, err := queue.GetQueueSize(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), size)

		data, err := queue.Dequeue(ctx, time.Second)
		require.NoError(t, err)

		var event applicant.Event
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "e-1", event.ID)
	})

	t.Run("dequeue times out empty", func(t *testing.T) {
		require.NoError(t, queue.Clear(ctx))

		data, err := queue.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("delayed events move when due", func(t *testing.T) {
		require.NoError(t, queue.Clear(ctx))

		require.NoError(t, queue.EnqueueDelayed(ctx, applicant.Event{ID: "due"}, -time.Second))
		require.NoError(t, queue.EnqueueDelayed(ctx, applicant.Event{ID: "later"}, time.Hour))

		moved, err := queue.MoveDelayedToReady(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, moved)

		stats, err := queue.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats["ready_events"])
		assert.Equal(t, int64(1), stats["delayed_events"])
	})
}

package fifolock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_GrantsInArrivalOrder(t *testing.T) {
	l := New()
	require.NoError(t, l.Acquire(context.Background()))

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = l.Do(context.Background(), func(context.Context) error {
				mu.Lock()
				order = append(order, id)
				mu.Unlock()
				return nil
			})
		}(i)
		// Wait until goroutine i is parked before starting the next one.
		want := i + 1
		require.Eventually(t, func() bool { return l.Waiting() == want }, time.Second, time.Millisecond)
	}

	l.Release()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.False(t, l.Held())
}

func TestLock_Do_ReleasesOnError(t *testing.T) {
	l := New()
	boom := errors.New("boom")

	err := l.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, l.Held())
}

func TestLock_Do_ReleasesOnPanic(t *testing.T) {
	l := New()

	assert.Panics(t, func() {
		_ = l.Do(context.Background(), func(context.Context) error { panic("kaboom") })
	})
	assert.False(t, l.Held())

	// The lock is still usable afterwards.
	require.NoError(t, l.Do(context.Background(), func(context.Context) error { return nil }))
}

func TestLock_Do_MutualExclusion(t *testing.T) {
	l := New()
	var (
		active int
		max    int
		mu     sync.Mutex
		wg     sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func(context.Context) error {
				mu.Lock()
				active++
				if active > max {
					max = active
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max)
}

func TestLock_Acquire_CancelledWaiterLeavesQueue(t *testing.T) {
	l := New()
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() { cancelled <- l.Acquire(ctx) }()
	require.Eventually(t, func() bool { return l.Waiting() == 1 }, time.Second, time.Millisecond)

	granted := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func(context.Context) error {
			close(granted)
			return nil
		})
	}()
	require.Eventually(t, func() bool { return l.Waiting() == 2 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-cancelled, context.Canceled)
	assert.Equal(t, 1, l.Waiting())

	l.Release()
	select {
	case <-granted:
	case <-time.After(time.Second):
		t.Fatal("second waiter was never granted the lock")
	}
	require.Eventually(t, func() bool { return !l.Held() }, time.Second, time.Millisecond)
}

func TestLock_Acquire_AlreadyCancelled(t *testing.T) {
	l := New()
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, l.Waiting())
	l.Release()
	assert.False(t, l.Held())
}

func TestLock_Release_Unlocked(t *testing.T) {
	assert.Panics(t, func() { New().Release() })
}

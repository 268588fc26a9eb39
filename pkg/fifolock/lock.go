// Package fifolock provides a mutual-exclusion lock that grants ownership
// strictly in arrival order.
//
// Waiters park on a private channel until the previous holder hands the
// lock over, so no goroutine ever spins. A waiter whose context ends before
// it is granted leaves the queue without disturbing the others.
package fifolock

import (
	"context"
	"sync"
)

// Lock is a FIFO mutex. The zero value is an unlocked lock.
type Lock struct {
	mu    sync.Mutex
	held  bool
	queue []*waiter
}

type waiter struct {
	ready chan struct{}
	// granted is set under Lock.mu when ownership is handed to this waiter.
	granted bool
}

// New returns an unlocked Lock.
func New() *Lock {
	return &Lock{}
}

// Acquire blocks until the caller owns the lock or ctx is done.
// On success the caller must call Release exactly once.
func (l *Lock) Acquire(ctx context.Context) error {
	l.mu.Lock()
	if !l.held && len(l.queue) == 0 {
		l.held = true
		l.mu.Unlock()
		return nil
	}

	w := &waiter{ready: make(chan struct{})}
	l.queue = append(l.queue, w)
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		defer l.mu.Unlock()
		if w.granted {
			// Ownership arrived together with cancellation. Keep the
			// handoff chain moving instead of leaking the lock.
			l.releaseLocked()
			return ctx.Err()
		}
		l.remove(w)
		return ctx.Err()
	}
}

// Release hands the lock to the oldest waiter, or unlocks it when nobody
// waits. Releasing an unlocked Lock panics.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		panic("fifolock: release of unlocked lock")
	}
	l.releaseLocked()
}

// Do runs fn while holding the lock. The lock is released when fn returns,
// fails or panics.
func (l *Lock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn(ctx)
}

// Waiting reports how many goroutines are queued behind the holder.
func (l *Lock) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Held reports whether the lock currently has an owner.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

func (l *Lock) releaseLocked() {
	if len(l.queue) == 0 {
		l.held = false
		return
	}
	next := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	next.granted = true
	close(next.ready)
}

func (l *Lock) remove(w *waiter) {
	for i, q := range l.queue {
		if q == w {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return
		}
	}
}

package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
)

// ErrStopped is returned by Invoke once the Loop is no longer running.
var ErrStopped = errors.New("dispatch: loop stopped")

// Loop is a serial execution context. Callbacks run on the goroutine that
// called Run, never concurrently with each other.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// New returns a Loop whose queue holds up to buffer pending callbacks.
func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes posted callbacks until ctx is cancelled. It locks the calling
// goroutine to its OS thread for the duration. Callbacks still queued when
// ctx is cancelled are discarded.
func (l *Loop) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer l.stopOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			l.call(fn)
		}
	}
}

// call runs fn and keeps the loop alive if it panics.
func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dispatch: callback panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn to run on the loop and returns without waiting for it.
// It blocks only while the queue is full, and returns false if the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Invoke runs fn on the loop and waits for it to finish. It must not be
// called from a callback running on the same loop.
func (l *Loop) Invoke(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// startLoop runs l in the background and stops it when the test ends.
func startLoop(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
}

func TestLoop_RunsInPostOrder(t *testing.T) {
	l := New(64)
	startLoop(t, l)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 50; i++ {
		i := i
		if !l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatalf("Post(%d) returned false on a running loop", i)
		}
	}
	if err := l.Invoke(context.Background(), func() {}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 50 {
		t.Fatalf("callbacks run: got %d, want 50", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order: got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestLoop_CallbacksNeverOverlap(t *testing.T) {
	l := New(16)
	startLoop(t, l)

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		wg      sync.WaitGroup
	)
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				l.Post(func() {
					mu.Lock()
					running++
					if running > maxSeen {
						maxSeen = running
					}
					mu.Unlock()
					time.Sleep(time.Millisecond)
					mu.Lock()
					running--
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()
	if err := l.Invoke(context.Background(), func() {}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxSeen != 1 {
		t.Errorf("max concurrent callbacks: got %d, want 1", maxSeen)
	}
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	l := New(4)
	startLoop(t, l)

	l.Post(func() { panic("boom") })

	ran := false
	if err := l.Invoke(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Invoke after panic: %v", err)
	}
	if !ran {
		t.Error("callback after a panic did not run")
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	cancel()
	<-l.Done()

	if l.Post(func() {}) {
		t.Error("Post on a stopped loop: got true, want false")
	}
	if err := l.Invoke(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Invoke on a stopped loop: got %v, want ErrStopped", err)
	}
}

func TestLoop_InvokeHonoursContext(t *testing.T) {
	// Not running: the callback is queued but never executed.
	l := New(4)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Invoke(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Invoke: got %v, want context.DeadlineExceeded", err)
	}
}

// Package schedule runs periodic work on goroutines whose lifetime is bound to a context.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task calls fn every interval until its context ends or Stop is called.
type Task struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	reset   chan struct{}
	done    chan struct{}
}

// NewTask creates a task that is not yet running. interval must be positive.
func NewTask(interval time.Duration, fn func(ctx context.Context)) *Task {
	if interval <= 0 {
		panic("schedule: non-positive interval")
	}
	return &Task{
		interval: interval,
		fn:       fn,
		reset:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the task loop. The first call to fn happens one interval after Start.
// Calling Start on a running or stopped task does nothing.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started || t.stopped {
		return
	}
	t.started = true

	ctx, t.cancel = context.WithCancel(ctx)
	go t.loop(ctx)
}

// Reset restarts the interval from now, so the next call to fn is one full interval away.
func (t *Task) Reset() {
	select {
	case t.reset <- struct{}{}:
	default:
	}
}

// Stop cancels the task and waits for an in-progress call to fn to return. Safe to call
// more than once, and before Start.
func (t *Task) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		<-t.done
		return
	}
	t.stopped = true
	if !t.started {
		close(t.done)
		t.mu.Unlock()
		return
	}
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	<-t.done
}

// Done is closed once the task loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.reset:
			ticker.Reset(t.interval)
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			t.fn(ctx)
		}
	}
}

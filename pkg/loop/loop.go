// Package loop provides the single-threaded cooperative event loop that hosts
// element updates.
//
// Work is organised in segments. A segment is one task taken from the task
// queue and run to completion. Work deferred during a segment with Defer runs
// after the segment ends and before the next task starts, in the order it was
// deferred. Deferred work that defers more work extends the same drain.
//
// Post is safe to call from any goroutine. Everything else that touches
// elements (property writes, lifecycle callbacks) must run on the loop, either
// inside a posted task or from the goroutine that drives Drain.
package loop

import (
	"context"
	"sync"

	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
)

// Loop is a task queue plus a deferred-work queue drained after every task.
type Loop struct {
	mu       sync.Mutex
	tasks    []func()
	deferred []func()
	wake     chan struct{}
	running  bool
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues a task to run as its own segment.
// Safe to call from any goroutine.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
	l.signal()
}

// Defer schedules fn to run after the current segment completes.
func (l *Loop) Defer(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.deferred = append(l.deferred, fn)
	l.mu.Unlock()
	l.signal()
}

// Pending reports whether any task or deferred work is queued.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.deferred) > 0
}

// Drain runs deferred work left over from the caller's segment, then every
// queued task followed by its deferred work, until both queues are empty.
// Returns the number of tasks run.
func (l *Loop) Drain() int {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		log.Warn(log.CatLoop, "re-entrant drain ignored")
		return 0
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	ran := 0
	for {
		l.drainDeferred()

		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return ran
		}
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		run("loop.task", task)
		ran++
	}
}

func (l *Loop) drainDeferred() {
	for {
		l.mu.Lock()
		if len(l.deferred) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.deferred[0]
		l.deferred[0] = nil
		l.deferred = l.deferred[1:]
		l.mu.Unlock()

		run("loop.deferred", fn)
	}
}

// Run drains the loop whenever work arrives until ctx is done.
// It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func run(op string, fn func()) {
	defer errors.RecoverWithCallback(op, func(r any) {
		log.Warn(log.CatLoop, "work panicked, continuing with the next task", "op", op)
	})
	fn()
}

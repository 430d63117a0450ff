package session

import (
	"context"
	"sync"
)

// Dispatcher decides which goroutine observes transaction results.
type Dispatcher interface {
	Dispatch(fn func())
}

type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks on whichever goroutine finished the transaction: the
// worker, or the submitter for validation failures. Use it when the caller
// blocks on its own channel anyway.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Loop queues callbacks for a single consumer goroutine, the way a UI thread
// drains posted work. Dispatch never blocks.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	notify  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{notify: make(chan struct{}, 1)}
}

func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// Drain runs every queued callback on the calling goroutine and reports how
// many ran.
func (l *Loop) Drain() int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Run drains callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Drain()
			return
		case <-l.notify:
			l.Drain()
		}
	}
}

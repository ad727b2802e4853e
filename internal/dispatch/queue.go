package dispatch

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Queue struct {
	mu        sync.Mutex
	calls     []Call
	signal    chan struct{}
	closed    bool
	performed prometheus.Counter
}

type QueueOption func(*Queue)

// WithPerformedCounter counts every call executed by the queue.
func WithPerformedCounter(counter prometheus.Counter) QueueOption {
	return func(q *Queue) {
		q.performed = counter
	}
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		signal: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Post enqueues call. It reports false once the queue has been closed.
func (q *Queue) Post(call Call) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.calls = append(q.calls, call)
	q.mu.Unlock()
	q.notify()
	return true
}

// Close rejects further posts and wakes any waiter. Calls already queued
// can still be performed.
func (q *Queue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
	return nil
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

// WaitForCall blocks until at least one call is queued or the queue is closed.
func (q *Queue) WaitForCall() {
	for !q.ready() {
		<-q.signal
	}
}

// WaitForCallTimeout blocks for at most timeout and reports whether a call is
// queued.
func (q *Queue) WaitForCallTimeout(timeout time.Duration) bool {
	if q.ready() {
		return q.Pending() > 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.signal:
			if q.ready() {
				return q.Pending() > 0
			}
		case <-timer.C:
			return q.Pending() > 0
		}
	}
}

// PerformCall runs the oldest queued call, if any.
func (q *Queue) PerformCall() error {
	call, ok := q.pop()
	if !ok {
		return nil
	}
	return q.perform(call)
}

// PerformAllCalls runs queued calls until the queue is empty, including calls
// posted while draining. It stops at the first failing call.
func (q *Queue) PerformAllCalls() error {
	for {
		call, ok := q.pop()
		if !ok {
			return nil
		}
		if err := q.perform(call); err != nil {
			return err
		}
	}
}

func (q *Queue) ready() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls) > 0 || q.closed
}

func (q *Queue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *Queue) pop() (Call, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.calls) == 0 {
		return nil, false
	}
	call := q.calls[0]
	q.calls[0] = nil
	q.calls = q.calls[1:]
	return call, true
}

func (q *Queue) perform(call Call) (err error) {
	defer func() {
		if ex := recover(); ex != nil {
			err = &PanicError{Value: ex, Stack: debug.Stack()}
		}
	}()
	if q.performed != nil {
		q.performed.Inc()
	}
	return call()
}

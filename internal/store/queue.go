package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrClosed = errors.New("store: closed")

type job struct {
	ctx  context.Context
	run  func(context.Context) error
	done chan error
}

// queue runs jobs one at a time, in submission order, on a single worker
// goroutine.
type queue struct {
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func newQueue(size int) *queue {
	q := &queue{
		jobs: make(chan job, size),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Do enqueues fn and waits for it to run. Once accepted a job always runs
// to completion, unless its context is already done when it's dequeued.
// fn must not call Do or Close itself.
func (q *queue) Do(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, run: fn, done: make(chan error, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrClosed
	}
	select {
	case q.jobs <- j:
		q.mu.RUnlock()
	case <-ctx.Done():
		q.mu.RUnlock()
		return ctx.Err()
	}
	return <-j.done
}

// Close stops accepting jobs, waits for the queued ones and stops the
// worker. It is safe to call more than once.
func (q *queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *queue) worker() {
	defer q.wg.Done()

	for j := range q.jobs {
		j.done <- q.exec(j)
	}
}

func (q *queue) exec(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store: job panic: %v", r)
		}
	}()
	return j.run(j.ctx)
}

package gateway

import (
	"container/list"
	"context"
	"sync"
)

// Queue admits at most a fixed number of tasks at once. Callers beyond the
// limit wait in FIFO order; a finishing task hands its slot straight to the
// oldest waiter so capacity never idles while someone is waiting.
//
// A running task is never interrupted by the queue.
type Queue struct {
	mu      sync.Mutex
	limit   int
	active  int
	waiters list.List // of chan struct{}
}

// NewQueue creates a queue admitting up to maxConcurrency tasks at once.
// Values below 1 are treated as 1.
func NewQueue(maxConcurrency int) *Queue {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Queue{limit: maxConcurrency}
}

// Run waits for a slot in q, runs task and releases the slot on every exit
// path, including a panic in task. The task's error is returned unchanged.
//
// If ctx is cancelled while waiting, Run returns ctx.Err() without running
// task and without disturbing the order of the remaining waiters.
func Run[T any](ctx context.Context, q *Queue, task func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := q.acquire(ctx); err != nil {
		return zero, err
	}
	defer q.release()

	return task(ctx)
}

// Capacity returns the maximum number of concurrently running tasks.
func (q *Queue) Capacity() int {
	return q.limit
}

// Active returns the number of tasks currently holding a slot.
func (q *Queue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// Waiting returns the number of callers waiting for a slot.
func (q *Queue) Waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiters.Len()
}

func (q *Queue) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	if q.active < q.limit && q.waiters.Len() == 0 {
		q.active++
		q.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	elem := q.waiters.PushBack(ready)
	q.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		q.mu.Lock()
		select {
		case <-ready:
			// The slot was handed over before we could leave; pass it on.
			q.mu.Unlock()
			q.release()
		default:
			q.waiters.Remove(elem)
			q.mu.Unlock()
		}
		return ctx.Err()
	}
}

// release frees a slot. When someone is waiting the slot is transferred to
// the oldest waiter and active stays unchanged.
func (q *Queue) release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if front := q.waiters.Front(); front != nil {
		q.waiters.Remove(front)
		close(front.Value.(chan struct{}))
		return
	}
	q.active--
}

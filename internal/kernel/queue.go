package kernel

import (
	"container/list"
	"sync"
)

// waiter is one entry in a FIFO wait queue: the id of the blocked thread and
// the channel the kernel closes to wake it. Grounded on the waiter
// doubly-linked-list design in Vanadium's nsync Mu/CV (see other_examples),
// adapted to Go channels instead of a hand-rolled spinlock + park/unpark.
type waiter struct {
	id int64
	ch chan struct{}
}

// fifoQueue is a kernel-held FIFO wait queue. Every blocking primitive in
// this runtime (mutex, cv, rwlock, semaphore) wakes waiters in the order
// they blocked; fifoQueue is the one piece of machinery that guarantees
// that, instead of leaving wake order to goroutine scheduling.
type fifoQueue struct {
	mu    sync.Mutex
	items list.List // of *waiter
}

// push enqueues the caller and returns its waiter handle. The caller must
// receive from w.ch (or select on it) to observe the wakeup.
func (q *fifoQueue) push(id int64) *waiter {
	w := &waiter{id: id, ch: make(chan struct{})}
	q.mu.Lock()
	q.items.PushBack(w)
	q.mu.Unlock()
	return w
}

// popFront removes and returns the head waiter, or nil if empty. It does
// NOT close the channel; callers decide when to close it (e.g. mutex
// handoff closes it only after transferring ownership fields).
func (q *fifoQueue) popFront() *waiter {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.items.Front()
	if e == nil {
		return nil
	}
	q.items.Remove(e)
	return e.Value.(*waiter)
}

// remove drops w from the queue if still present (used to cancel a timed-out
// wait). Returns true if w was found and removed.
func (q *fifoQueue) remove(w *waiter) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for e := q.items.Front(); e != nil; e = e.Next() {
		if e.Value.(*waiter) == w {
			q.items.Remove(e)
			return true
		}
	}
	return false
}

// wakeAll pops and wakes every waiter currently queued, returning the count
// woken. Used by broadcast-style operations.
func (q *fifoQueue) wakeAll() int {
	var n int
	for {
		w := q.popFront()
		if w == nil {
			return n
		}
		close(w.ch)
		n++
	}
}

func (q *fifoQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

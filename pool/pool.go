// Package pool implements a fixed-size worker pool: a FIFO task queue
// drained by n worker threads, built directly on pthread.Mutex/pthread.Cond
// rather than goroutines-plus-channels, so it dogfoods this module's own
// synchronization primitives the way the reference pool is built directly
// on the kernel's mutex/cv rather than a higher-level abstraction.
package pool

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/rtlog"
	"github.com/MedourMehdi/mintlib-rc/pthread"
)

type (
	// Config models optional Pool configuration, following the same
	// zero-value-means-default convention as microbatch.BatcherConfig:
	// a nil Config, or any zero field within one, takes the stated default.
	Config struct {
		// Logger receives a line when a task panics and when Destroy
		// finishes. Defaults to rtlog.Default().
		Logger *rtlog.Logger
	}

	task struct {
		fn  func(arg any)
		arg any
	}

	// Pool is a fixed worker-count thread pool with a FIFO task queue.
	// Instances must be created with New.
	Pool struct {
		mu       pthread.Mutex
		cv       pthread.Cond
		queue    []task
		shutdown bool
		started  int
		failed   int64
		ran      int64
		workers  []pthread.ID
		logger   rtlog.Logger
	}
)

// New creates a pool of n worker threads. config may be nil. New destroys
// any already-started workers and returns an error if a worker fails to
// start partway through, matching create(n)'s all-or-nothing contract.
func New(n int, config *Config) (*Pool, error) {
	if n <= 0 {
		return nil, errno.EINVAL
	}
	p := &Pool{logger: rtlog.Default()}
	if config != nil && config.Logger != nil {
		p.logger = *config.Logger
	}
	if err := p.mu.Init(nil); err != nil {
		return nil, err
	}
	if err := p.cv.Init(); err != nil {
		return nil, err
	}

	p.workers = make([]pthread.ID, 0, n)
	for i := 0; i < n; i++ {
		id, err := pthread.Create(nil, func(arg any) any {
			p.workerLoop()
			return nil
		}, nil)
		if err != nil {
			p.Destroy(false)
			return nil, err
		}
		p.workers = append(p.workers, id)
		p.started++
	}
	return p, nil
}

// worker loop: lock, wait while the queue is empty and the pool is not
// shutting down, pop the head task if one is available, unlock, run it.
func (p *Pool) workerLoop() {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.shutdown {
			_ = p.cv.Wait(&p.mu)
		}
		if len(p.queue) == 0 && p.shutdown {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(t)
	}
}

// run executes a single task, recovering from a panic so one misbehaving
// task cannot take down a worker thread.
func (p *Pool) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			p.mu.Lock()
			p.failed++
			p.mu.Unlock()
			p.logger.Error().Msg("pool: task panicked, worker recovered")
		}
	}()
	t.fn(t.arg)
	p.mu.Lock()
	p.ran++
	p.mu.Unlock()
}

// Add appends a task to the tail of the queue and wakes one waiting
// worker. Tasks submitted by a single caller run in submission order;
// tasks submitted concurrently by different callers are serialized by the
// pool's own mutex. EINVAL if the pool has already been shut down.
func (p *Pool) Add(fn func(arg any), arg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return errno.EINVAL
	}
	p.queue = append(p.queue, task{fn: fn, arg: arg})
	_ = p.cv.Signal()
	return nil
}

// Destroy shuts the pool down: sets the shutdown flag, wakes every worker,
// and joins them all. If graceful is true, every task already queued at
// the moment of the call runs to completion first; otherwise the residual
// queue is discarded.
func (p *Pool) Destroy(graceful bool) {
	p.mu.Lock()
	p.shutdown = true
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()
	_ = p.cv.Broadcast()

	for _, id := range p.workers {
		_, _ = pthread.Join(id)
	}

	if graceful {
		for _, t := range pending {
			p.run(t)
		}
	}

	p.logger.Info().Int("ran", int(p.ran)).Int("failed", int(p.failed)).Msg("pool: shutdown complete")

	_ = p.cv.Destroy()
	_ = p.mu.Destroy()
}

// Stats reports how many tasks have completed (successfully or via a
// recovered panic) so far.
func (p *Pool) Stats() (ran, failed int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ran, p.failed
}

// Command mintlibdemo exercises the synchronization primitives end to end:
// a producer/consumer ring, a multi-trip barrier, a worker pool, a shared
// spinlock, a pthread.Once race, and a named semaphore's open/close/reopen
// lifecycle. It's a thin wiring layer over the library packages, logging
// through the same facade the packages themselves use rather than
// fmt.Println.
package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/MedourMehdi/mintlib-rc/internal/rtlog"
	"github.com/MedourMehdi/mintlib-rc/pool"
	"github.com/MedourMehdi/mintlib-rc/pthread"
	"github.com/MedourMehdi/mintlib-rc/sem"
	"github.com/MedourMehdi/mintlib-rc/spin"
)

func main() {
	rtlog.Configure(os.Stdout, rtlog.LevelInfo)
	log := rtlog.Default().With("mintlibdemo")

	producerConsumer(log)
	barrier(log)
	workerPool(log)
	sharedSpinlock(log)
	onceRace(log)
	namedSemaphore(log)

	log.Info().Int("live_threads", len(pthread.ListLive())).Msg("demo complete")
}

// producerConsumer pushes 1..count through a capacity-8 ring guarded by a
// mutex and two condition variables.
func producerConsumer(log rtlog.Logger) {
	const capacity = 8
	const count = 50

	var mu pthread.Mutex
	var notFull, notEmpty pthread.Cond
	_ = mu.Init(nil)
	_ = notFull.Init()
	_ = notEmpty.Init()

	ring := make([]int, 0, capacity)
	closed := false

	producer, _ := pthread.Create(nil, func(arg any) any {
		for i := 1; i <= count; i++ {
			_ = mu.Lock()
			for len(ring) == capacity {
				_ = notFull.Wait(&mu)
			}
			ring = append(ring, i)
			_ = notEmpty.Signal()
			mu.Unlock()
		}
		_ = mu.Lock()
		closed = true
		_ = notEmpty.Broadcast()
		mu.Unlock()
		return nil
	}, nil)

	var received int
	consumer, _ := pthread.Create(nil, func(arg any) any {
		for {
			_ = mu.Lock()
			for len(ring) == 0 && !closed {
				_ = notEmpty.Wait(&mu)
			}
			if len(ring) == 0 && closed {
				mu.Unlock()
				return nil
			}
			ring = ring[1:]
			_ = notFull.Signal()
			mu.Unlock()
			received++
		}
	}, nil)

	_, _ = pthread.Join(producer)
	_, _ = pthread.Join(consumer)
	log.Info().Int("received", received).Msg("producer/consumer done")
}

// barrier runs four threads through three rendezvous trips.
func barrier(log rtlog.Logger) {
	const threads = 4
	const trips = 3

	var b pthread.Barrier
	_ = b.Init(threads)

	var tripsCompleted int64
	ids := make([]pthread.ID, threads)
	for i := range ids {
		id, _ := pthread.Create(nil, func(arg any) any {
			for trip := 0; trip < trips; trip++ {
				if v, _ := b.Wait(); v == pthread.SerialThread {
					atomic.AddInt64(&tripsCompleted, 1)
				}
			}
			return nil
		}, nil)
		ids[i] = id
	}
	for _, id := range ids {
		_, _ = pthread.Join(id)
	}
	_ = b.Destroy()
	log.Info().Int64("trips_completed", tripsCompleted).Msg("barrier done")
}

// workerPool runs 100 tasks through 3 worker threads.
func workerPool(log rtlog.Logger) {
	p, err := pool.New(3, nil)
	if err != nil {
		log.Error().Err(err).Msg("pool.New failed")
		return
	}
	for i := 0; i < 100; i++ {
		_ = p.Add(func(arg any) {
			_ = arg.(int) * 2
		}, i)
	}
	p.Destroy(true)
	ran, failed := p.Stats()
	log.Info().Int64("ran", ran).Int64("failed", failed).Msg("pool done")
}

// sharedSpinlock simulates two processes incrementing a counter serialized
// by a shared spinlock, in-process since this binary has no literal second
// process to fork into.
func sharedSpinlock(log rtlog.Logger) {
	path := fmt.Sprintf("%s/mintlibdemo-spin-%d", os.TempDir(), os.Getpid())

	creator, err := spin.Create(path)
	if err != nil {
		log.Error().Err(err).Msg("spin.Create failed")
		return
	}
	defer creator.Detach()

	joiner, err := spin.Attach(path)
	if err != nil {
		log.Error().Err(err).Msg("spin.Attach failed")
		return
	}
	defer joiner.Detach()

	var counter int64
	const perSide = 1000
	done := make(chan struct{}, 2)
	increment := func(l *spin.Shared) {
		for i := 0; i < perSide; i++ {
			l.Lock()
			counter++
			l.Unlock()
		}
		done <- struct{}{}
	}
	go increment(creator)
	go increment(joiner)
	<-done
	<-done
	log.Info().Int64("counter", counter).Msg("shared spinlock done")
}

// onceRace has fifty threads race to run the same initializer exactly once.
func onceRace(log rtlog.Logger) {
	var once pthread.Once
	var calls int64
	const n = 50
	ids := make([]pthread.ID, n)
	for i := range ids {
		id, _ := pthread.Create(nil, func(arg any) any {
			once.Do(func() { atomic.AddInt64(&calls, 1) })
			return nil
		}, nil)
		ids[i] = id
	}
	for _, id := range ids {
		_, _ = pthread.Join(id)
	}
	log.Info().Int64("init_calls", calls).Msg("once race done")
}

// namedSemaphore walks through open, dedup-open, post/wait, unlink-while-
// open, close, and reopen-after-last-close.
func namedSemaphore(log rtlog.Logger) {
	name := "/dem"

	a, err := sem.Open(name, sem.OCreate, 1)
	if err != nil {
		log.Error().Err(err).Msg("sem.Open failed")
		return
	}
	b, err := sem.Open(name, sem.OCreate, 0)
	if err != nil {
		log.Error().Err(err).Msg("sem.Open (second handle) failed")
		return
	}

	_ = a.Wait()
	_ = b.Post()
	_ = a.Wait()

	_ = sem.Unlink(name)
	_ = a.Close()
	_ = b.Close()

	c, err := sem.Open(name, sem.OCreate, 2)
	if err != nil {
		log.Error().Err(err).Msg("sem.Open (fresh) failed")
		return
	}
	v, _ := c.GetValue()
	_ = sem.Unlink(name)
	_ = c.Close()
	log.Info().Int("fresh_value", int(v)).Msg("named semaphore done")
}

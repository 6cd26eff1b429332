package pthread

import "github.com/MedourMehdi/mintlib-rc/internal/errno"

// SerialThread is returned by Barrier.Wait to exactly one of the threads
// that released a given trip through the barrier, so callers can elect a
// single "do the per-trip bookkeeping" thread without a separate vote.
const SerialThread = -1

// Barrier synchronizes a fixed number of threads at a rendezvous point,
// called a "trip". Once count threads have called Wait, they are all
// released together and the barrier resets for its next trip (the
// "generation" below distinguishes a thread that arrives late for the
// current trip from one that's already moved on to the next one).
type Barrier struct {
	mu         Mutex
	cv         Cond
	count      int
	waiting    int
	generation int64
}

// Init prepares b for count participants. count must be >= 1.
func (b *Barrier) Init(count int) error {
	if count < 1 {
		return errno.EINVAL
	}
	if err := b.mu.Init(nil); err != nil {
		return err
	}
	if err := b.cv.Init(); err != nil {
		return err
	}
	b.count = count
	b.waiting = 0
	b.generation = 0
	return nil
}

func (b *Barrier) Destroy() error {
	if b.waiting != 0 {
		return errno.EBUSY
	}
	if err := b.cv.Destroy(); err != nil {
		return err
	}
	return b.mu.Destroy()
}

// Wait blocks until count threads have called Wait for the current trip,
// then releases them all at once. Exactly one of them observes a return
// value of SerialThread; the rest observe 0.
func (b *Barrier) Wait() (int, error) {
	if err := b.mu.Lock(); err != nil {
		return 0, err
	}
	defer b.mu.Unlock()

	myGen := b.generation
	b.waiting++
	if b.waiting == b.count {
		b.generation++
		b.waiting = 0
		if err := b.cv.Broadcast(); err != nil {
			return 0, err
		}
		return SerialThread, nil
	}

	for myGen == b.generation {
		if err := b.cv.Wait(&b.mu); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

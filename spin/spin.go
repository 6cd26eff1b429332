// Package spin implements busy-wait locks: a private spinlock and a shared
// variant whose lock word lives in a named internal/kernel/shm segment that
// several handles attach to (within this one process). Spinlocks trade CPU for avoiding the suspend/wake latency
// of a real mutex, and are only appropriate for critical sections expected
// to be held a handful of microseconds at most.
package spin

import (
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc/atomic"
)

const (
	unlocked int32 = 0
	locked   int32 = 1

	// magic tags an initialized Lock; Destroy checks it and returns EINVAL
	// for a Lock that was never Init'ed (TryLock/Lock/Unlock do not read
	// it). Distinct from the cv magic so the two can't be confused with
	// each other through an unsafe cast or a copy-paste bug.
	magic uint32 = 0x50535043

	maxBackoff = 500 * time.Microsecond
)

// Lock is a private (single-process) spinlock: {word, magic}, identical in
// shape to a plain int32 flag plus a tag, per the reference's tiny struct.
type Lock struct {
	word  int32
	tag   uint32
}

func (l *Lock) Init() error {
	l.word = unlocked
	l.tag = magic
	return nil
}

func (l *Lock) Destroy() error {
	if l.tag != magic {
		return errno.EINVAL
	}
	l.tag = 0
	return nil
}

// TryLock attempts to acquire l with a single CAS and never spins.
func (l *Lock) TryLock() bool {
	return atomic.CAS32(&l.word, unlocked, locked)
}

// Lock spins until it acquires l, backing off exponentially (capped at
// maxBackoff) between attempts instead of busy-looping at full rate the
// entire time — a pure tight CAS loop pegs a core at 100% even once the
// holder has long since released the lock, which is the "high cpu if wait
// exceeds ~10µs" pathology spinlocks are documented to have.
func (l *Lock) Lock() {
	backoff := time.Microsecond
	for !l.TryLock() {
		if backoff < maxBackoff {
			time.Sleep(backoff)
			backoff *= 2
		} else {
			time.Sleep(maxBackoff)
		}
	}
}

func (l *Lock) Unlock() {
	atomic.Store32(&l.word, unlocked)
}

func (l *Lock) IsHeld() bool {
	return atomic.Load32(&l.word) == locked
}

// Package sem implements POSIX-style counting semaphores: the anonymous
// sem_init/sem_destroy family and the named sem_open/sem_close/sem_unlink
// family, sharing one T type that tags itself at Init time rather than
// needing two distinct concrete types.
package sem

import (
	"math/rand"
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/pthread"
	"github.com/MedourMehdi/mintlib-rc/sysc"
	"github.com/MedourMehdi/mintlib-rc/sysc/atomic"
)

// fail records e as the calling thread's last error (the nearest safe
// analogue to C's thread-local errno, which this whole family sets rather
// than returning directly) and hands back e as an idiomatic Go error too,
// so callers that don't care about the C convention can just check the
// return value.
func fail(e errno.Errno) error {
	errno.SetLast(int64(pthread.Self()), e)
	return errno.OrNil(e)
}

const ValueMax = 1<<31 - 1

type mode byte

const (
	modeMultithreaded mode = iota
	modeSingleThreaded
)

// Clock selects which clock TimedWait's deadline is measured against.
type Clock int

const (
	ClockRealtime Clock = iota
	ClockMonotonic
)

// T is a counting semaphore. The zero value is NOT usable; call Init or
// Open first. Which of the two wait/post implementations below backs a
// given T is fixed for its lifetime: Init picks it once by whether the
// process had already gone multithreaded, and Open always picks the
// single-threaded one.
type T struct {
	m mode

	// modeMultithreaded
	handle int64

	// modeSingleThreaded (also used by the named family, which is always
	// this mode: its whole point is cross-thread/process visibility via a
	// kernel-held id rather than an in-process handle)
	id   string
	name string // "" for anonymous (sem_init), set for sem_open
}

// Init creates an anonymous semaphore with the given initial value.
func Init(initial uint32) (*T, error) {
	if initial > ValueMax {
		return nil, fail(errno.EINVAL)
	}
	s := &T{}
	if pthread.IsMultithreaded() {
		s.m = modeMultithreaded
		h, eno := sysc.SemInit(int32(initial))
		if eno != errno.OK {
			return nil, fail(eno)
		}
		s.handle = h
		return s, nil
	}
	s.m = modeSingleThreaded
	s.id = genAnonID()
	if eno := sysc.NamedSemCreate(s.id); eno != errno.OK {
		return nil, fail(eno)
	}
	initCount(s.id, int32(initial))
	return s, nil
}

func genAnonID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 4)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func (s *T) Destroy() error {
	switch s.m {
	case modeMultithreaded:
		_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySync, sysc.OpSyncSemDestroy, s.handle, 0, 0, 0))
		if eno != errno.OK {
			return fail(eno)
		}
		return nil
	default:
		deleteCount(s.id)
		if eno := sysc.NamedSemDestroy(s.id); eno != errno.OK {
			return fail(eno)
		}
		return nil
	}
}

// Wait blocks until the semaphore's count is greater than zero, then
// decrements it.
func (s *T) Wait() error {
	switch s.m {
	case modeMultithreaded:
		if eno := sysc.SemWait(s.handle, int64(pthread.Self())); eno != errno.OK {
			return fail(eno)
		}
		return nil
	default:
		return s.singleThreadedWait(-1)
	}
}

// TryWait is Wait without blocking: EAGAIN if the count is already zero.
// For the multithreaded mode this is a pure user-space CAS retry loop
// against the kernel-exposed count pointer, never a kernel round-trip.
func (s *T) TryWait() error {
	switch s.m {
	case modeMultithreaded:
		ptr := sysc.SemCountPtr(s.handle)
		if ptr == nil {
			return fail(errno.EINVAL)
		}
		for {
			cur := atomic.Load32(ptr)
			if cur <= 0 {
				return fail(errno.EAGAIN)
			}
			if atomic.CAS32(ptr, cur, cur-1) {
				return nil
			}
		}
	default:
		return s.singleThreadedWait(0)
	}
}

// TimedWait is Wait bounded by an absolute deadline measured against clk.
func (s *T) TimedWait(clk Clock, deadline time.Time) error {
	if clk != ClockRealtime && clk != ClockMonotonic {
		return fail(errno.EINVAL)
	}
	ms := errno.DeadlineMillis(time.Now(), deadline)
	switch s.m {
	case modeMultithreaded:
		return s.pollMultithreaded(time.Duration(ms) * time.Millisecond)
	default:
		err := s.singleThreadedWait(int64(ms))
		if ms == 0 && err == errno.EAGAIN {
			// deadline already passed: a failed single attempt is a timeout,
			// not TryWait's EAGAIN
			return fail(errno.ETIMEDOUT)
		}
		return err
	}
}

// pollMultithreaded backs TimedWait for the in-memory mode: the kernel's
// wait queue has no built-in timeout-aware variant for SemWait (unlike
// CondWait), so a bounded wait polls the CAS path on a short interval
// instead, same technique as TryWait, bounded by budget.
func (s *T) pollMultithreaded(budget time.Duration) error {
	ptr := sysc.SemCountPtr(s.handle)
	if ptr == nil {
		return fail(errno.EINVAL)
	}
	deadline := time.Now().Add(budget)
	for {
		cur := atomic.Load32(ptr)
		if cur > 0 && atomic.CAS32(ptr, cur, cur-1) {
			return nil
		}
		if time.Now().After(deadline) {
			return fail(errno.ETIMEDOUT)
		}
		time.Sleep(time.Millisecond)
	}
}

// singleThreadedWait mirrors the reference's lock-check-decrement-unlock
// retry loop: the kernel-named lock protects the critical section only,
// never the blocking wait itself. timeoutMillis<0 waits forever, 0 is a
// single non-blocking attempt.
func (s *T) singleThreadedWait(timeoutMillis int64) error {
	deadline := time.Time{}
	if timeoutMillis > 0 {
		deadline = time.Now().Add(time.Duration(timeoutMillis) * time.Millisecond)
	}
	for {
		if eno := sysc.NamedSemLock(s.id, -1); eno != errno.OK {
			return fail(eno)
		}
		if getCount(s.id) > 0 {
			decCount(s.id)
			sysc.NamedSemUnlock(s.id)
			return nil
		}
		sysc.NamedSemUnlock(s.id)

		if timeoutMillis == 0 {
			return fail(errno.EAGAIN)
		}
		if timeoutMillis > 0 && time.Now().After(deadline) {
			return fail(errno.ETIMEDOUT)
		}
		pthread.Yield()
	}
}

// Post increments the semaphore's count, waking one waiter if any are
// blocked (multithreaded mode only; single-threaded mode's waiters are
// polling, so there's nothing to explicitly wake).
func (s *T) Post() error {
	switch s.m {
	case modeMultithreaded:
		_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySync, sysc.OpSyncSemPost, s.handle, 0, 0, 0))
		if eno != errno.OK {
			return fail(eno)
		}
		return nil
	default:
		if eno := sysc.NamedSemLock(s.id, -1); eno != errno.OK {
			return fail(eno)
		}
		defer sysc.NamedSemUnlock(s.id)
		if getCount(s.id) >= ValueMax {
			return fail(errno.EOVERFLOW)
		}
		incCount(s.id)
		return nil
	}
}

func (s *T) GetValue() (int32, error) {
	switch s.m {
	case modeMultithreaded:
		v, eno := sysc.SemGetValue(s.handle)
		if eno != errno.OK {
			return v, fail(eno)
		}
		return v, nil
	default:
		return getCount(s.id), nil
	}
}

package kernel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

// SemValueMax mirrors SEM_VALUE_MAX from include/semaphore.h: the ceiling
// a counting semaphore's value may never exceed. Posting at this count
// fails with EOVERFLOW instead of wrapping.
const SemValueMax = 1<<31 - 1

// --- multithreaded-mode semaphore: count + kernel wait queue ---

type semState struct {
	gmu       sync.Mutex
	count     int32
	queue     fifoQueue
	destroyed bool
}

var (
	semsMu sync.Mutex
	sems   = map[int64]*semState{}
)

func SemInit(initial int32) (int64, errno.Errno) {
	if initial < 0 || initial > SemValueMax {
		return 0, errno.EINVAL
	}
	h := nextHandle()
	semsMu.Lock()
	sems[h] = &semState{count: initial}
	semsMu.Unlock()
	return h, errno.OK
}

func sem(h int64) *semState {
	semsMu.Lock()
	defer semsMu.Unlock()
	return sems[h]
}

func SemDestroy(h int64) errno.Errno {
	st := sem(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if st.queue.len() > 0 {
		return errno.EBUSY
	}
	st.destroyed = true
	semsMu.Lock()
	delete(sems, h)
	semsMu.Unlock()
	return errno.OK
}

func SemWait(h, callerID int64) errno.Errno {
	st := sem(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if st.count > 0 {
		st.count--
		st.gmu.Unlock()
		return errno.OK
	}
	w := st.queue.push(callerID)
	st.gmu.Unlock()
	<-w.ch
	return errno.OK
}

func SemPost(h int64) errno.Errno {
	st := sem(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if w := st.queue.popFront(); w != nil {
		close(w.ch) // hand the unit directly to a waiter; count stays put
		return errno.OK
	}
	if st.count >= SemValueMax {
		return errno.EOVERFLOW
	}
	st.count++
	return errno.OK
}

// SemCountPtr exposes the raw count address so sem.TryWait can implement a
// pure user-space CAS loop without a kernel round-trip; this is the one
// multithreaded-sem op that deliberately bypasses the wait-queue path.
func SemCountPtr(h int64) *int32 {
	st := sem(h)
	if st == nil {
		return nil
	}
	return &st.count
}

func SemGetValue(h int64) (int32, errno.Errno) {
	st := sem(h)
	if st == nil {
		return 0, errno.EINVAL
	}
	return atomic.LoadInt32(&st.count), errno.OK
}

// --- single-threaded-mode kernel named semaphore slot ---
//
// Backs both the dual-mode semaphore's single-threaded path and the
// sem_open/sem_unlink named-semaphore family. The slot itself behaves like
// a simple, non-FIFO-fair lock (POSIX makes no fairness promise for it);
// the actual counting value lives in user space (package sem's count map,
// keyed by the same id), guarded by this lock, which acts as a per-sem
// mutex.
type namedSemSlot struct {
	lockCh chan struct{}
}

var (
	namedSemsMu sync.Mutex
	namedSems   = map[string]*namedSemSlot{}
)

func NamedSemCreate(id string) errno.Errno {
	namedSemsMu.Lock()
	defer namedSemsMu.Unlock()
	if _, ok := namedSems[id]; ok {
		return errno.EEXIST
	}
	slot := &namedSemSlot{lockCh: make(chan struct{}, 1)}
	slot.lockCh <- struct{}{}
	namedSems[id] = slot
	return errno.OK
}

func namedSem(id string) *namedSemSlot {
	namedSemsMu.Lock()
	defer namedSemsMu.Unlock()
	return namedSems[id]
}

// NamedSemLock acquires the per-sem kernel lock. timeoutMillis < 0 blocks
// forever; 0 behaves like a trylock; >0 is a bounded wait.
func NamedSemLock(id string, timeoutMillis int64) errno.Errno {
	slot := namedSem(id)
	if slot == nil {
		return errno.EINVAL
	}
	switch {
	case timeoutMillis < 0:
		<-slot.lockCh
		return errno.OK
	case timeoutMillis == 0:
		select {
		case <-slot.lockCh:
			return errno.OK
		default:
			return errno.EBUSY
		}
	default:
		select {
		case <-slot.lockCh:
			return errno.OK
		case <-time.After(time.Duration(timeoutMillis) * time.Millisecond):
			return errno.ETIMEDOUT
		}
	}
}

func NamedSemUnlock(id string) errno.Errno {
	slot := namedSem(id)
	if slot == nil {
		return errno.EINVAL
	}
	select {
	case slot.lockCh <- struct{}{}:
	default:
	}
	return errno.OK
}

func NamedSemDestroy(id string) errno.Errno {
	namedSemsMu.Lock()
	defer namedSemsMu.Unlock()
	if _, ok := namedSems[id]; !ok {
		return errno.EINVAL
	}
	delete(namedSems, id)
	return errno.OK
}

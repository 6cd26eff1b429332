package kernel

import (
	"sync"
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

type condState struct {
	gmu       sync.Mutex
	queue     fifoQueue
	destroyed bool
}

var (
	condsMu sync.Mutex
	conds   = map[int64]*condState{}
)

func CondInit() int64 {
	h := nextHandle()
	condsMu.Lock()
	conds[h] = &condState{}
	condsMu.Unlock()
	return h
}

func cond(h int64) *condState {
	condsMu.Lock()
	defer condsMu.Unlock()
	return conds[h]
}

func CondDestroy(h int64) errno.Errno {
	st := cond(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if st.queue.len() > 0 {
		return errno.EBUSY
	}
	st.destroyed = true
	condsMu.Lock()
	delete(conds, h)
	condsMu.Unlock()
	return errno.OK
}

// CondWait atomically releases the held mutex and blocks the caller on the
// condition's wait queue, then reacquires the mutex before returning.
// timeoutMillis<0 means "wait forever"; otherwise it's an already-saturated
// millisecond deadline (the overflow-safe conversion happens in the
// pthread layer, via internal/errno.SaturateMillis, before this is called).
func CondWait(condHandle, mutexHandle, callerID int64, timeoutMillis int64) errno.Errno {
	st := cond(condHandle)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if st.destroyed {
		st.gmu.Unlock()
		return errno.EINVAL
	}
	w := st.queue.push(callerID)
	st.gmu.Unlock()

	// Step 2: release the mutex only after we're queued, so a concurrent
	// Signal/Broadcast that runs the instant we unlock cannot be missed.
	if e := MutexUnlock(mutexHandle, callerID); e != errno.OK {
		st.gmu.Lock()
		st.queue.remove(w)
		st.gmu.Unlock()
		return e
	}

	var timedOut bool
	if timeoutMillis < 0 {
		<-w.ch
	} else {
		timer := time.NewTimer(time.Duration(timeoutMillis) * time.Millisecond)
		select {
		case <-w.ch:
			timer.Stop()
		case <-timer.C:
			st.gmu.Lock()
			if st.queue.remove(w) {
				timedOut = true
			}
			st.gmu.Unlock()
			if !timedOut {
				// we were signalled in the race between timer fire and
				// removal; drain the close to stay consistent.
				<-w.ch
			}
		}
	}

	// Step 4: always reacquire the mutex before returning, timeout or not.
	if e := MutexLock(mutexHandle, callerID); e != errno.OK {
		return e
	}
	if timedOut {
		return errno.ETIMEDOUT
	}
	return errno.OK
}

func CondSignal(h int64) errno.Errno {
	st := cond(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	w := st.queue.popFront()
	st.gmu.Unlock()
	if w != nil {
		close(w.ch)
	}
	return errno.OK
}

func CondBroadcast(h int64) errno.Errno {
	st := cond(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	st.queue.wakeAll()
	st.gmu.Unlock()
	return errno.OK
}

package kernel

import (
	"sync"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

type rwTicket struct {
	id      int64
	writer  bool
	ch      chan struct{}
	granted bool
}

// rwlockState keeps a single FIFO ticket queue covering both readers and
// writers. Grant works from the front: it admits a run of consecutive
// reader tickets, and stops the instant it reaches a writer ticket (at most
// one writer is ever active). A writer's position in the queue is therefore
// never skipped by a reader that arrives later, which rules out writer
// starvation without tracking a reader/writer admission ratio.
type rwlockState struct {
	gmu           sync.Mutex
	activeReaders int
	activeWriter  bool
	queue         []*rwTicket
	destroyed     bool
}

var (
	rwlocksMu sync.Mutex
	rwlocks   = map[int64]*rwlockState{}
)

func RWLockInit() int64 {
	h := nextHandle()
	rwlocksMu.Lock()
	rwlocks[h] = &rwlockState{}
	rwlocksMu.Unlock()
	return h
}

func rwlock(h int64) *rwlockState {
	rwlocksMu.Lock()
	defer rwlocksMu.Unlock()
	return rwlocks[h]
}

func RWLockDestroy(h int64) errno.Errno {
	st := rwlock(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if st.activeReaders > 0 || st.activeWriter || len(st.queue) > 0 {
		return errno.EBUSY
	}
	st.destroyed = true
	rwlocksMu.Lock()
	delete(rwlocks, h)
	rwlocksMu.Unlock()
	return errno.OK
}

// grantLocked must be called with st.gmu held. It admits as many tickets
// from the front of the queue as current state allows.
func grantLocked(st *rwlockState) {
	for len(st.queue) > 0 {
		head := st.queue[0]
		if head.writer {
			if st.activeReaders > 0 || st.activeWriter {
				return
			}
			st.activeWriter = true
			head.granted = true
			st.queue = st.queue[1:]
			close(head.ch)
			return // only one writer admitted per pass
		}
		if st.activeWriter {
			return
		}
		st.activeReaders++
		head.granted = true
		st.queue = st.queue[1:]
		close(head.ch)
	}
}

func rdLock(h, callerID int64, try bool) errno.Errno {
	st := rwlock(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if st.destroyed {
		st.gmu.Unlock()
		return errno.EINVAL
	}
	if !st.activeWriter && len(st.queue) == 0 {
		st.activeReaders++
		st.gmu.Unlock()
		return errno.OK
	}
	if try {
		st.gmu.Unlock()
		return errno.EBUSY
	}
	t := &rwTicket{id: callerID, ch: make(chan struct{})}
	st.queue = append(st.queue, t)
	st.gmu.Unlock()
	<-t.ch
	return errno.OK
}

func wrLock(h, callerID int64, try bool) errno.Errno {
	st := rwlock(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if st.destroyed {
		st.gmu.Unlock()
		return errno.EINVAL
	}
	if !st.activeWriter && st.activeReaders == 0 && len(st.queue) == 0 {
		st.activeWriter = true
		st.gmu.Unlock()
		return errno.OK
	}
	if try {
		st.gmu.Unlock()
		return errno.EBUSY
	}
	t := &rwTicket{id: callerID, writer: true, ch: make(chan struct{})}
	st.queue = append(st.queue, t)
	st.gmu.Unlock()
	<-t.ch
	return errno.OK
}

func RWLockRDLock(h, callerID int64) errno.Errno    { return rdLock(h, callerID, false) }
func RWLockTryRDLock(h, callerID int64) errno.Errno { return rdLock(h, callerID, true) }
func RWLockWRLock(h, callerID int64) errno.Errno    { return wrLock(h, callerID, false) }
func RWLockTryWRLock(h, callerID int64) errno.Errno { return wrLock(h, callerID, true) }

func RWLockUnlock(h int64) errno.Errno {
	st := rwlock(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	switch {
	case st.activeWriter:
		st.activeWriter = false
	case st.activeReaders > 0:
		st.activeReaders--
	default:
		st.gmu.Unlock()
		return errno.EPERM
	}
	if st.activeReaders == 0 && !st.activeWriter {
		grantLocked(st)
	}
	st.gmu.Unlock()
	return errno.OK
}

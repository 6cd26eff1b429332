package kernel

import (
	"sync"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

type MutexType int

const (
	MutexNormal MutexType = iota
	MutexRecursive
	MutexErrorCheck
)

type MutexProtocol int

const (
	ProtoNone MutexProtocol = iota
	ProtoInherit
	ProtoProtect
)

// MutexAttrState is the kernel-side storage for a pthread_mutexattr_t. The
// user-facing pthread.MutexAttr is just a handle into this table.
type MutexAttrState struct {
	mu          sync.Mutex
	Type        MutexType
	Protocol    MutexProtocol
	PrioCeiling int
}

var (
	mutexAttrsMu sync.Mutex
	mutexAttrs   = map[int64]*MutexAttrState{}
)

func MutexAttrInit() int64 {
	h := nextHandle()
	mutexAttrsMu.Lock()
	mutexAttrs[h] = &MutexAttrState{Type: MutexNormal, Protocol: ProtoNone}
	mutexAttrsMu.Unlock()
	return h
}

func MutexAttrDestroy(h int64) errno.Errno {
	mutexAttrsMu.Lock()
	defer mutexAttrsMu.Unlock()
	if _, ok := mutexAttrs[h]; !ok {
		return errno.EINVAL
	}
	delete(mutexAttrs, h)
	return errno.OK
}

func mutexAttr(h int64) *MutexAttrState {
	mutexAttrsMu.Lock()
	defer mutexAttrsMu.Unlock()
	return mutexAttrs[h]
}

func MutexAttrSetType(h int64, t MutexType) errno.Errno {
	a := mutexAttr(h)
	if a == nil {
		return errno.EINVAL
	}
	if t != MutexNormal && t != MutexRecursive && t != MutexErrorCheck {
		return errno.EINVAL
	}
	a.mu.Lock()
	a.Type = t
	a.mu.Unlock()
	return errno.OK
}

func MutexAttrGetType(h int64) (MutexType, errno.Errno) {
	a := mutexAttr(h)
	if a == nil {
		return 0, errno.EINVAL
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Type, errno.OK
}

func MutexAttrSetProtocol(h int64, p MutexProtocol) errno.Errno {
	a := mutexAttr(h)
	if a == nil {
		return errno.EINVAL
	}
	a.mu.Lock()
	a.Protocol = p
	a.mu.Unlock()
	return errno.OK
}

func MutexAttrGetProtocol(h int64) (MutexProtocol, errno.Errno) {
	a := mutexAttr(h)
	if a == nil {
		return 0, errno.EINVAL
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Protocol, errno.OK
}

func MutexAttrSetPrioCeiling(h int64, ceiling int) errno.Errno {
	a := mutexAttr(h)
	if a == nil {
		return errno.EINVAL
	}
	a.mu.Lock()
	a.PrioCeiling = ceiling
	a.mu.Unlock()
	return errno.OK
}

func MutexAttrGetPrioCeiling(h int64) (int, errno.Errno) {
	a := mutexAttr(h)
	if a == nil {
		return 0, errno.EINVAL
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.PrioCeiling, errno.OK
}

// mutexState is the kernel's record for one pthread_mutex_t. gmu guards the
// fields below and stands in for "the kernel" in the invariant that user
// space never inspects locked/owner directly ("trylock must
// never peek at the internal state from user space").
type mutexState struct {
	gmu       sync.Mutex
	kind      MutexType
	protocol  MutexProtocol
	locked    bool
	owner     int64
	recursion int32
	queue     fifoQueue
	destroyed bool
}

var (
	mutexesMu sync.Mutex
	mutexes   = map[int64]*mutexState{}
)

func MutexInit(attrHandle int64) int64 {
	st := &mutexState{kind: MutexNormal, protocol: ProtoNone}
	if attrHandle != 0 {
		if a := mutexAttr(attrHandle); a != nil {
			a.mu.Lock()
			st.kind = a.Type
			st.protocol = a.Protocol
			a.mu.Unlock()
		}
	}
	h := nextHandle()
	mutexesMu.Lock()
	mutexes[h] = st
	mutexesMu.Unlock()
	return h
}

func mutex(h int64) *mutexState {
	mutexesMu.Lock()
	defer mutexesMu.Unlock()
	return mutexes[h]
}

func MutexDestroy(h int64) errno.Errno {
	st := mutex(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if st.locked || st.queue.len() > 0 {
		return errno.EBUSY
	}
	st.destroyed = true
	mutexesMu.Lock()
	delete(mutexes, h)
	mutexesMu.Unlock()
	return errno.OK
}

func MutexLock(h, callerID int64) errno.Errno {
	st := mutex(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if st.destroyed {
		st.gmu.Unlock()
		return errno.EINVAL
	}
	if !st.locked {
		st.locked = true
		st.owner = callerID
		st.recursion = 1
		st.gmu.Unlock()
		return errno.OK
	}
	if st.owner == callerID {
		switch st.kind {
		case MutexRecursive:
			st.recursion++
			st.gmu.Unlock()
			return errno.OK
		case MutexErrorCheck:
			st.gmu.Unlock()
			return errno.EDEADLK
		default:
			// NORMAL: POSIX leaves self-relock undefined. We choose the
			// behavior real glibc fast mutexes exhibit: the caller blocks
			// forever (self-deadlock), since that is the "undefined but
			// observable" outcome a reimplementation should not paper over.
		}
	}
	w := st.queue.push(callerID)
	st.gmu.Unlock()
	<-w.ch
	return errno.OK // ownership was handed to us by Unlock before it closed w.ch
}

func MutexTryLock(h, callerID int64) errno.Errno {
	st := mutex(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	if st.destroyed {
		return errno.EINVAL
	}
	if !st.locked {
		st.locked = true
		st.owner = callerID
		st.recursion = 1
		return errno.OK
	}
	if st.owner == callerID && st.kind == MutexRecursive {
		st.recursion++
		return errno.OK
	}
	return errno.EBUSY
}

func MutexUnlock(h, callerID int64) errno.Errno {
	st := mutex(h)
	if st == nil {
		return errno.EINVAL
	}
	st.gmu.Lock()
	if !st.locked {
		st.gmu.Unlock()
		if st.kind == MutexErrorCheck {
			return errno.EPERM
		}
		return errno.OK // NORMAL: undefined; treat as a no-op rather than panic
	}
	if st.owner != callerID {
		st.gmu.Unlock()
		if st.kind == MutexErrorCheck {
			return errno.EPERM
		}
		return errno.OK // NORMAL: undefined foreign-unlock
	}
	if st.kind == MutexRecursive && st.recursion > 1 {
		st.recursion--
		st.gmu.Unlock()
		return errno.OK
	}
	// hand off directly to the next FIFO waiter, if any, to avoid a
	// thundering-herd re-race and to guarantee FIFO acquisition order.
	next := st.queue.popFront()
	if next != nil {
		st.owner = next.id
		st.recursion = 1
		st.gmu.Unlock()
		close(next.ch)
		return errno.OK
	}
	st.locked = false
	st.owner = 0
	st.recursion = 0
	st.gmu.Unlock()
	return errno.OK
}

// MutexOwner returns the current owner id (0 if unlocked), used only by
// diagnostics/logging, never by a lock/unlock/trylock fast path.
func MutexOwner(h int64) (owner int64, locked bool) {
	st := mutex(h)
	if st == nil {
		return 0, false
	}
	st.gmu.Lock()
	defer st.gmu.Unlock()
	return st.owner, st.locked
}

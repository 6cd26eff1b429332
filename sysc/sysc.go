// Package sysc is the entry point the other packages in this module go
// through to reach internal/kernel's operations; this mirrors the reference
// runtime's single syscall trap, narrowed to a typed Go function instead of
// a software interrupt. Two imports bypass it: pthread imports
// internal/kernel for the mutex type/protocol constants, and spin imports
// internal/kernel/shm for the shared spinlock segment.
package sysc

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel"
)

// Category groups related operations, matching the reference kernel's
// syscall number ranges.
type Category int

const (
	CategoryCtrl Category = iota
	CategorySync
	CategorySignal
	CategorySched
)

// Op identifies one operation within a Category. The numeric values are
// private to this package; callers use the named constants below.
type Op int

const (
	OpCtrlCancel Op = iota
	OpCtrlSetCancelState
	OpCtrlSetCancelType
	OpCtrlTestCancel
	OpCtrlDetach
	OpCtrlYield
	OpCtrlSleep
	OpCtrlIsInitial
	OpCtrlIsMultithreaded
)

const (
	OpSyncMutexLock Op = iota
	OpSyncMutexTryLock
	OpSyncMutexUnlock
	OpSyncMutexDestroy
	OpSyncCondSignal
	OpSyncCondBroadcast
	OpSyncCondDestroy
	OpSyncRWLockRDLock
	OpSyncRWLockTryRDLock
	OpSyncRWLockWRLock
	OpSyncRWLockTryWRLock
	OpSyncRWLockUnlock
	OpSyncRWLockDestroy
	OpSyncSemPost
	OpSyncSemDestroy
)

const (
	OpSignalBlock Op = Op(kernel.SigBlock)
	OpSignalUnblock Op = Op(kernel.SigUnblock)
	OpSignalSetMask Op = Op(kernel.SigSetMask)
)

const (
	OpSchedGetParam Op = iota
	OpSchedSetParam
	OpSchedGetRRInterval
	OpSchedSetTimeslice
	OpSchedGetTimeslice
)

// Dispatch is the four-argument integer façade: a negative return value is
// -errno, a non-negative one is the operation's result. It covers every
// operation whose inputs and outputs fit in int64 — the bulk of the SYNC,
// CTRL, SIGNAL, and SCHED categories. Operations that need richer Go values
// (closures, strings, arbitrary thread return values, pointers for atomics)
// are exposed as their own typed functions elsewhere in this package and in
// sysc/atomic instead of being shoehorned through Dispatch; see DESIGN.md
// for the list and rationale.
func Dispatch(category Category, op Op, a1, a2, a3, a4 int64) int64 {
	switch category {
	case CategoryCtrl:
		return dispatchCtrl(op, a1, a2, a3, a4)
	case CategorySync:
		return dispatchSync(op, a1, a2, a3, a4)
	case CategorySignal:
		return dispatchSignal(op, a1, a2, a3, a4)
	case CategorySched:
		return dispatchSched(op, a1, a2, a3, a4)
	default:
		return errno.Neg(errno.EINVAL)
	}
}

func dispatchCtrl(op Op, a1, a2, a3, a4 int64) int64 {
	switch op {
	case OpCtrlCancel:
		return errno.Neg(kernel.Cancel(a1))
	case OpCtrlSetCancelState:
		old, e := kernel.SetCancelState(a1, int(a2))
		if e != errno.OK {
			return errno.Neg(e)
		}
		return int64(old)
	case OpCtrlSetCancelType:
		old, e := kernel.SetCancelType(a1, int(a2))
		if e != errno.OK {
			return errno.Neg(e)
		}
		return int64(old)
	case OpCtrlTestCancel:
		if kernel.TestCancel(a1) {
			return 1
		}
		return 0
	case OpCtrlDetach:
		return errno.Neg(kernel.Detach(a1))
	case OpCtrlYield:
		kernel.Yield()
		return 0
	case OpCtrlSleep:
		kernel.SleepMillis(a1)
		return 0
	case OpCtrlIsInitial:
		if kernel.IsInitialThread() {
			return 1
		}
		return 0
	case OpCtrlIsMultithreaded:
		if kernel.IsMultithreaded() {
			return 1
		}
		return 0
	default:
		return errno.Neg(errno.EINVAL)
	}
}

func dispatchSync(op Op, a1, a2, a3, a4 int64) int64 {
	switch op {
	case OpSyncMutexLock:
		return errno.Neg(kernel.MutexLock(a1, a2))
	case OpSyncMutexTryLock:
		return errno.Neg(kernel.MutexTryLock(a1, a2))
	case OpSyncMutexUnlock:
		return errno.Neg(kernel.MutexUnlock(a1, a2))
	case OpSyncMutexDestroy:
		return errno.Neg(kernel.MutexDestroy(a1))
	case OpSyncCondSignal:
		return errno.Neg(kernel.CondSignal(a1))
	case OpSyncCondBroadcast:
		return errno.Neg(kernel.CondBroadcast(a1))
	case OpSyncCondDestroy:
		return errno.Neg(kernel.CondDestroy(a1))
	case OpSyncRWLockRDLock:
		return errno.Neg(kernel.RWLockRDLock(a1, a2))
	case OpSyncRWLockTryRDLock:
		return errno.Neg(kernel.RWLockTryRDLock(a1, a2))
	case OpSyncRWLockWRLock:
		return errno.Neg(kernel.RWLockWRLock(a1, a2))
	case OpSyncRWLockTryWRLock:
		return errno.Neg(kernel.RWLockTryWRLock(a1, a2))
	case OpSyncRWLockUnlock:
		return errno.Neg(kernel.RWLockUnlock(a1))
	case OpSyncRWLockDestroy:
		return errno.Neg(kernel.RWLockDestroy(a1))
	case OpSyncSemPost:
		return errno.Neg(kernel.SemPost(a1))
	case OpSyncSemDestroy:
		return errno.Neg(kernel.SemDestroy(a1))
	default:
		return errno.Neg(errno.EINVAL)
	}
}

func dispatchSignal(op Op, a1, a2, a3, a4 int64) int64 {
	switch op {
	case OpSignalBlock, OpSignalUnblock, OpSignalSetMask:
		old, e := kernel.SigSetMaskOp(a1, int(op), uint64(a2))
		if e != errno.OK {
			return errno.Neg(e)
		}
		return int64(old)
	default:
		return errno.Neg(errno.EINVAL)
	}
}

func dispatchSched(op Op, a1, a2, a3, a4 int64) int64 {
	switch op {
	case OpSchedGetParam:
		_, priority, e := kernel.GetSchedParam(a1)
		if e != errno.OK {
			return errno.Neg(e)
		}
		return int64(priority)
	case OpSchedSetParam:
		return errno.Neg(kernel.SetSchedParam(a1, int(a2), int(a3)))
	case OpSchedGetRRInterval:
		ms, e := kernel.GetRRInterval(a1)
		if e != errno.OK {
			return errno.Neg(e)
		}
		return ms
	case OpSchedSetTimeslice:
		// a1 carries the millisecond value; this op is process-wide rather
		// than per-thread, so unlike every other CategorySched op a1 is not
		// a thread id here.
		return errno.Neg(kernel.SetTimeslice(a1))
	case OpSchedGetTimeslice:
		return kernel.GetTimeslice()
	default:
		return errno.Neg(errno.EINVAL)
	}
}

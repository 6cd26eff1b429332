// Package pthread implements a POSIX-thread-flavored concurrency API on top
// of goroutines: thread lifecycle, mutexes, condition variables, rwlocks,
// barriers, thread-specific data, pthread_once, cancellation, cleanup
// handlers, and per-thread signal masks. Every operation is a thin,
// validating wrapper around sysc.Dispatch (or, where the operation needs a
// closure/string/arbitrary value, the typed sysc functions) — this package
// owns no synchronization state of its own beyond the small bookkeeping
// structs below.
package pthread

import (
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

// MinStackSize is the smallest non-zero Attr.StackSize that Create will
// accept, matching the original libc's PTHREAD_STACK_MIN.
const MinStackSize = 16384

// ID identifies a thread, returned by Create and Self.
type ID int64

// Attr configures a thread before Create. The zero value is valid and
// matches the default attributes pthread_attr_init would produce.
type Attr struct {
	Detached  bool
	StackSize int
	Priority  int
}

// Create starts fn(arg) on a new thread and returns its ID. attr may be nil
// for default attributes. Returns EINVAL if attr.StackSize is set below
// MinStackSize.
func Create(attr *Attr, fn func(arg any) any, arg any) (ID, error) {
	detached := false
	if attr != nil {
		if attr.StackSize != 0 && attr.StackSize < MinStackSize {
			return 0, errno.EINVAL
		}
		detached = attr.Detached
	}
	entry := func(arg any) any {
		return sysc.ThreadRunEntry(fn, arg)
	}
	id, eno := sysc.ThreadCreate(detached, entry, arg)
	if eno != errno.OK {
		return 0, eno
	}
	if attr != nil && attr.Priority != 0 {
		_ = sysc.Dispatch(sysc.CategorySched, sysc.OpSchedSetParam, id, 0 /* SCHED_OTHER */, int64(attr.Priority), 0)
	}
	return ID(id), nil
}

// Exit terminates the calling thread with the given return value. It must
// be called from the thread's own entry function (directly or via a nested
// call), since it works by panicking with a sentinel that Create's wrapper
// recovers — the same "unwind to the top of this thread's stack only"
// contract pthread_exit has in C, rendered with Go's own unwinding
// primitive instead of setjmp/longjmp.
func Exit(ret any) {
	sysc.ThreadExit(ret)
}

// Join blocks until id terminates, returning its exit value. EDEADLK if id
// is the caller, EINVAL if id is detached, ESRCH if id is unknown or has
// already been joined.
func Join(id ID) (any, error) {
	ret, eno := sysc.ThreadJoin(int64(id), int64(Self()))
	return ret, errno.OrNil(eno)
}

// TryJoin is Join without blocking: EBUSY if id hasn't terminated yet.
func TryJoin(id ID) (any, error) {
	ret, eno := sysc.ThreadTryJoin(int64(id), int64(Self()))
	return ret, errno.OrNil(eno)
}

// Detach marks id so no other thread can Join it. The thread's record is
// not removed from the thread table when it terminates: ListLive keeps
// reporting a detached thread after it has exited.
func Detach(id ID) error {
	_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlDetach, int64(id), 0, 0, 0))
	return errno.OrNil(eno)
}

// Self returns the calling thread's ID.
func Self() ID { return ID(sysc.ThreadSelf()) }

// Equal reports whether a and b name the same thread.
func Equal(a, b ID) bool { return sysc.ThreadEqual(int64(a), int64(b)) }

// Yield hints the scheduler to run another ready thread.
func Yield() { sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlYield, 0, 0, 0, 0) }

// Sleep blocks the calling thread for d, truncated to whole milliseconds
// (a d under one millisecond does not sleep at all).
func Sleep(d time.Duration) {
	sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlSleep, d.Milliseconds(), 0, 0, 0)
}

// SetName sets id's debug name. A name longer than 15 bytes
// (kernel.MaxNameLen) is rejected with ERANGE, not truncated.
func SetName(id ID, name string) error {
	return errno.OrNil(sysc.ThreadSetName(int64(id), name))
}

// GetName returns id's debug name, "" if never set.
func GetName(id ID) (string, error) {
	name, eno := sysc.ThreadGetName(int64(id))
	return name, errno.OrNil(eno)
}

// ListLive returns the ids of every thread this runtime still has a record
// for (running, zombie-pending-join, or detached), ascending by id.
func ListLive() []ID {
	raw := sysc.ThreadListLive()
	ids := make([]ID, len(raw))
	for i, v := range raw {
		ids[i] = ID(v)
	}
	return ids
}

// IsInitialThread reports whether the caller is the process's original
// thread (the one that started main, never one returned by Create).
func IsInitialThread() bool {
	return sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlIsInitial, 0, 0, 0, 0) == 1
}

// IsMultithreaded reports whether Create has ever been called in this
// process. sem.Init picks its semaphore mode based on it, mirroring the reference libc's internal
// "pthread library has been linked and used" flag.
func IsMultithreaded() bool {
	return sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlIsMultithreaded, 0, 0, 0, 0) == 1
}

package pthread

import "github.com/MedourMehdi/mintlib-rc/sysc"

// CleanupPush registers routine(arg) to run, in LIFO order relative to
// other pushed handlers, when the calling thread exits — whether via a
// normal return from its entry function, Exit, or cancellation.
func CleanupPush(routine func(arg any), arg any) {
	sysc.CleanupPush(int64(Self()), routine, arg)
}

// CleanupPop removes the most recently pushed cleanup handler for the
// calling thread. If execute is true, it is removed and then run;
// otherwise it's discarded.
func CleanupPop(execute bool) {
	sysc.CleanupPop(int64(Self()), execute)
}

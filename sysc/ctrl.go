package sysc

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel"
)

// The functions below cover CTRL operations whose signature does not fit
// Dispatch's four-int64 shape: thread creation takes a closure, join/exit
// carry an arbitrary return value, and name/TSD/cleanup traffic in strings
// and interface{} payloads. They still route exclusively through
// internal/kernel, same as Dispatch, so there is exactly one place that
// owns thread state.

func ThreadCreate(detached bool, fn func(arg any) any, arg any) (id int64, eno errno.Errno) {
	return kernel.Create(detached, fn, arg)
}

func ThreadRunEntry(fn func(arg any) any, arg any) any {
	return kernel.RunEntry(fn, arg)
}

func ThreadExit(ret any) {
	kernel.Exit(ret)
}

func ThreadJoin(id, callerID int64) (any, errno.Errno) {
	return kernel.Join(id, callerID)
}

func ThreadTryJoin(id, callerID int64) (any, errno.Errno) {
	return kernel.TryJoin(id, callerID)
}

func ThreadSelf() int64 { return kernel.Self() }

func ThreadEqual(a, b int64) bool { return kernel.Equal(a, b) }

func ThreadSetName(id int64, name string) errno.Errno { return kernel.SetName(id, name) }

func ThreadGetName(id int64) (string, errno.Errno) { return kernel.GetName(id) }

func CleanupPush(id int64, routine func(arg any), arg any) { kernel.CleanupPush(id, routine, arg) }

// ThreadListLive returns the ids of every thread the kernel still has a
// record for, ascending.
func ThreadListLive() []int64 { return kernel.ListLive() }

func CleanupPop(id int64, execute bool) { kernel.CleanupPop(id, execute) }

func TSDCreateKey(destructor func(value any)) int64 { return kernel.TSDCreateKey(destructor) }

func TSDDeleteKey(key int64) errno.Errno { return kernel.TSDDeleteKey(key) }

func TSDGet(threadID, key int64) any { return kernel.TSDGet(threadID, key) }

func TSDSet(threadID, key int64, value any) { kernel.TSDSet(threadID, key, value) }

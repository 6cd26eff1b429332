package kernel

import "sync/atomic"

// handleCounter hands out monotonically increasing positive handles for
// every kernel-allocated object (threads, mutexes, conds, rwlocks, sems,
// TSD keys). 0 is reserved, by convention, for "uninitialized"/"invalid".
var handleCounter int64

func nextHandle() int64 {
	return atomic.AddInt64(&handleCounter, 1)
}

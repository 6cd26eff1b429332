package kernel

import (
	"sync"
	"sync/atomic"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

const (
	SchedOther = 0
	SchedFIFO  = 1
	SchedRR    = 2

	DefaultTimesliceMillis = 10 // matches the reference kernel's 10ms quantum
)

type schedParam struct {
	mu       sync.Mutex
	policy   int
	priority int
}

var (
	schedMu     sync.Mutex
	schedParams = map[int64]*schedParam{}
	timeslice   atomic.Int64
)

func init() {
	timeslice.Store(DefaultTimesliceMillis)
}

func schedFor(id int64) *schedParam {
	schedMu.Lock()
	defer schedMu.Unlock()
	sp, ok := schedParams[id]
	if !ok {
		sp = &schedParam{policy: SchedOther}
		schedParams[id] = sp
	}
	return sp
}

func SetSchedParam(id int64, policy, priority int) errno.Errno {
	if policy != SchedOther && policy != SchedFIFO && policy != SchedRR {
		return errno.EINVAL
	}
	sp := schedFor(id)
	sp.mu.Lock()
	sp.policy = policy
	sp.priority = priority
	sp.mu.Unlock()
	return errno.OK
}

func GetSchedParam(id int64) (policy, priority int, eno errno.Errno) {
	sp := schedFor(id)
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.policy, sp.priority, errno.OK
}

// GetRRInterval returns the round-robin timeslice, in milliseconds, that
// applies to SCHED_RR threads. This runtime has no multi-core scheduler to
// model, so every thread shares the same fixed quantum and id is used only
// to validate that the thread exists.
func GetRRInterval(id int64) (millis int64, eno errno.Errno) {
	if lookup(id) == nil {
		return 0, errno.ESRCH
	}
	return timeslice.Load(), errno.OK
}

func SetTimeslice(millis int64) errno.Errno {
	if millis <= 0 {
		return errno.EINVAL
	}
	timeslice.Store(millis)
	return errno.OK
}

func GetTimeslice() int64 {
	return timeslice.Load()
}

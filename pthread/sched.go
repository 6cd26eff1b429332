package pthread

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

const (
	SchedOther = 0
	SchedFIFO  = 1
	SchedRR    = 2
)

// SchedParam is the scheduling policy/priority pair carried by an Attr.
type SchedParam struct {
	Policy   int
	Priority int
}

// GetSchedParam returns id's current scheduling priority. The kernel keeps
// the policy too, but the OpSchedGetParam dispatch result carries only the
// priority, so the policy is not queryable here.
func GetSchedParam(id ID) (int, error) {
	v, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySched, sysc.OpSchedGetParam, int64(id), 0, 0, 0))
	return int(v), errno.OrNil(eno)
}

// SetSchedParam sets id's scheduling policy and priority.
func SetSchedParam(id ID, policy, priority int) error {
	_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySched, sysc.OpSchedSetParam, int64(id), int64(policy), int64(priority), 0))
	return errno.OrNil(eno)
}

// GetRRInterval returns the round-robin timeslice applied to SCHED_RR
// threads.
func GetRRInterval(id ID) (int64, error) {
	v, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySched, sysc.OpSchedGetRRInterval, int64(id), 0, 0, 0))
	return v, errno.OrNil(eno)
}

// SetTimeslice sets the process-wide SCHED_RR quantum, in milliseconds,
// that GetRRInterval reports to every thread.
func SetTimeslice(millis int64) error {
	_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySched, sysc.OpSchedSetTimeslice, millis, 0, 0, 0))
	return errno.OrNil(eno)
}

// GetTimeslice returns the process-wide SCHED_RR quantum, in milliseconds.
func GetTimeslice() int64 {
	return sysc.Dispatch(sysc.CategorySched, sysc.OpSchedGetTimeslice, 0, 0, 0, 0)
}

package pthread

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

const (
	CancelEnable  = 0
	CancelDisable = 1

	CancelDeferred     = 0
	CancelAsynchronous = 1
)

// SetCancelState enables or disables cancellation for the calling thread,
// returning the previous state.
func SetCancelState(state int) (old int, err error) {
	v, eno := errno.FromNeg(sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlSetCancelState, int64(Self()), int64(state), 0, 0))
	return int(v), errno.OrNil(eno)
}

// SetCancelType selects deferred or asynchronous cancellation for the
// calling thread, returning the previous type. Asynchronous cancellation is
// narrowed relative to POSIX: a goroutine cannot be preempted mid-instruction
// the way a real thread can, so delivery still happens at the next
// cancellation point, the same as deferred.
func SetCancelType(typ int) (old int, err error) {
	v, eno := errno.FromNeg(sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlSetCancelType, int64(Self()), int64(typ), 0, 0))
	return int(v), errno.OrNil(eno)
}

// Cancel requests that id terminate at its next cancellation point.
func Cancel(id ID) error {
	_, eno := errno.FromNeg(sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlCancel, int64(id), 0, 0, 0))
	return errno.OrNil(eno)
}

// TestCancel is an explicit cancellation point: if a cancellation is
// pending and enabled, it terminates the calling thread via Exit(Canceled)
// and never returns. Otherwise it returns normally. User code calls this
// at safe points inside long-running loops that don't otherwise block on a
// cancellation-aware primitive (mutex/cond/sem wait already check this).
func TestCancel() {
	if sysc.Dispatch(sysc.CategoryCtrl, sysc.OpCtrlTestCancel, int64(Self()), 0, 0, 0) == 1 {
		Exit(Canceled)
	}
}

// Canceled is the sentinel return value a thread gets back from Join when
// it terminated via cancellation rather than returning or calling Exit
// with an explicit value.
var Canceled = &struct{ canceled bool }{true}

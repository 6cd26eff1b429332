package pthread

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

const (
	SigBlock   = 0
	SigUnblock = 1
	SigSetMask = 2
)

// Synthetic, library-managed signal numbers. SIGUSR1/SIGUSR2 are also
// bridged to the real OS signals of the same name via StartSignalBridge,
// so a thread blocked in SigWait can observe a signal delivered to this
// process from outside it, not just from another thread.
const (
	SigUsr1 = 30
	SigUsr2 = 31
)

// SigMask applies how (SigBlock/SigUnblock/SigSetMask) to set against the
// calling thread's signal mask, returning the previous mask.
func SigMask(how int, set uint64) (old uint64, err error) {
	v, eno := errno.FromNeg(sysc.Dispatch(sysc.CategorySignal, sysc.Op(how), int64(Self()), int64(set), 0, 0))
	return uint64(v), errno.OrNil(eno)
}

func SigGetMask() (uint64, error) {
	v, eno := sysc.SigGetMask(int64(Self()))
	return v, errno.OrNil(eno)
}

// Kill delivers sig to id.
func Kill(id ID, sig int) error {
	return errno.OrNil(sysc.Kill(int64(id), sig))
}

// Broadcast delivers sig to every live thread.
func Broadcast(sig int) {
	sysc.KillAll(sig)
}

// SigWait blocks the calling thread until one of the signals in set
// becomes pending, returning which one. It waits without a time limit; use
// SigTimedWait for a bounded wait.
func SigWait(set uint64) (int, error) {
	sig, eno := sysc.SigWait(int64(Self()), set, -1)
	return sig, errno.OrNil(eno)
}

// SigTimedWait is SigWait bounded by d.
func SigTimedWait(set uint64, d time.Duration) (int, error) {
	sig, eno := sysc.SigWait(int64(Self()), set, int64(errno.SaturateMillis(d)))
	return sig, errno.OrNil(eno)
}

// StartSignalBridge wires the real OS SIGUSR1/SIGUSR2 into this runtime's
// signal model, targeting the initial thread, so pthread.Kill(self(),
// SigUsr1) issued from outside the process (e.g. `kill -USR1 <pid>`) can
// be observed by SigWait the same as one delivered between threads.
func StartSignalBridge() {
	sysc.StartOSSignalBridge(os.Signal(unix.SIGUSR1), os.Signal(unix.SIGUSR2), SigUsr1, SigUsr2)
}

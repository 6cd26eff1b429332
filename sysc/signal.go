package sysc

import (
	"os"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel"
)

// SigGetMask, Kill, KillAll and SigWait don't fit Dispatch's plain-int64
// shape (a 64-bit signal number return value that can also be an errno
// needs disambiguation Dispatch's convention can't express cleanly), so
// they're exposed directly, same pattern as the CTRL/SYNC exceptions.

func SigGetMask(id int64) (uint64, errno.Errno) { return kernel.SigGetMask(id) }

func Kill(id int64, sig int) errno.Errno { return kernel.Kill(id, sig) }

func KillAll(sig int) { kernel.KillAll(sig) }

func SigWait(id int64, set uint64, timeoutMillis int64) (int, errno.Errno) {
	return kernel.SigWait(id, set, timeoutMillis)
}

func StartOSSignalBridge(sigusr1, sigusr2 os.Signal, num1, num2 int) {
	kernel.StartOSSignalBridge(sigusr1, sigusr2, num1, num2)
}

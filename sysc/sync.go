package sysc

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel"
)

// Init-family operations return a freshly allocated handle and so don't fit
// Dispatch's -errno/non-negative-result convention cleanly; CondWait needs
// a caller id and a mutex handle together with a timeout, which is four
// plain ints but conceptually belongs next to the other cond operations, so
// it lives here rather than wedged into the generic Dispatch switch.

func MutexAttrInit() int64                                  { return kernel.MutexAttrInit() }
func MutexAttrDestroy(h int64) errno.Errno                  { return kernel.MutexAttrDestroy(h) }
func MutexAttrSetType(h int64, t kernel.MutexType) errno.Errno {
	return kernel.MutexAttrSetType(h, t)
}
func MutexAttrGetType(h int64) (kernel.MutexType, errno.Errno) { return kernel.MutexAttrGetType(h) }
func MutexAttrSetProtocol(h int64, p kernel.MutexProtocol) errno.Errno {
	return kernel.MutexAttrSetProtocol(h, p)
}
func MutexAttrGetProtocol(h int64) (kernel.MutexProtocol, errno.Errno) {
	return kernel.MutexAttrGetProtocol(h)
}
func MutexAttrSetPrioCeiling(h int64, ceiling int) errno.Errno {
	return kernel.MutexAttrSetPrioCeiling(h, ceiling)
}
func MutexAttrGetPrioCeiling(h int64) (int, errno.Errno) { return kernel.MutexAttrGetPrioCeiling(h) }

func MutexInit(attrHandle int64) int64       { return kernel.MutexInit(attrHandle) }
func MutexOwner(h int64) (int64, bool)       { return kernel.MutexOwner(h) }

func CondInit() int64 { return kernel.CondInit() }

func CondWait(condHandle, mutexHandle, callerID, timeoutMillis int64) errno.Errno {
	return kernel.CondWait(condHandle, mutexHandle, callerID, timeoutMillis)
}

func RWLockInit() int64 { return kernel.RWLockInit() }

func SemInit(initial int32) (int64, errno.Errno) { return kernel.SemInit(initial) }
func SemWait(h, callerID int64) errno.Errno      { return kernel.SemWait(h, callerID) }
func SemCountPtr(h int64) *int32                 { return kernel.SemCountPtr(h) }
func SemGetValue(h int64) (int32, errno.Errno)   { return kernel.SemGetValue(h) }

func NamedSemCreate(id string) errno.Errno { return kernel.NamedSemCreate(id) }
func NamedSemLock(id string, timeoutMillis int64) errno.Errno {
	return kernel.NamedSemLock(id, timeoutMillis)
}
func NamedSemUnlock(id string) errno.Errno  { return kernel.NamedSemUnlock(id) }
func NamedSemDestroy(id string) errno.Errno { return kernel.NamedSemDestroy(id) }

package pthread

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

// RWLock allows any number of concurrent readers, or exactly one writer,
// never both. Grant order is strict FIFO across readers and writers
// together (see internal/kernel.rwlockState), so a writer can never be
// starved by a continuous stream of arriving readers. The zero value is
// NOT usable; call Init first.
type RWLock struct {
	handle int64
}

func (l *RWLock) Init() error {
	l.handle = sysc.RWLockInit()
	return nil
}

func (l *RWLock) Destroy() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockDestroy, l.handle, 0, 0, 0))
	return errno.OrNil(eno)
}

func (l *RWLock) RDLock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockRDLock, l.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

func (l *RWLock) TryRDLock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockTryRDLock, l.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

func (l *RWLock) WRLock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockWRLock, l.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

func (l *RWLock) TryWRLock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockTryWRLock, l.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

// Unlock releases either a read or write hold; the kernel tracks which
// without the caller needing to say.
func (l *RWLock) Unlock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncRWLockUnlock, l.handle, 0, 0, 0))
	return errno.OrNil(eno)
}

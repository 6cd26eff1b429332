package pthread

import (
	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

type MutexType = kernel.MutexType

const (
	MutexNormal     = kernel.MutexNormal
	MutexRecursive  = kernel.MutexRecursive
	MutexErrorCheck = kernel.MutexErrorCheck
)

type MutexProtocol = kernel.MutexProtocol

const (
	ProtoNone    = kernel.ProtoNone
	ProtoInherit = kernel.ProtoInherit
	ProtoProtect = kernel.ProtoProtect
)

// MutexAttr configures a Mutex before Init. The zero value is uninitialized;
// call NewMutexAttr (or pass nil to Mutex.Init for defaults).
type MutexAttr struct {
	handle int64
}

func NewMutexAttr() *MutexAttr {
	return &MutexAttr{handle: sysc.MutexAttrInit()}
}

func (a *MutexAttr) Destroy() error {
	return errno.OrNil(sysc.MutexAttrDestroy(a.handle))
}

func (a *MutexAttr) SetType(t MutexType) error {
	return errno.OrNil(sysc.MutexAttrSetType(a.handle, t))
}

func (a *MutexAttr) GetType() (MutexType, error) {
	t, eno := sysc.MutexAttrGetType(a.handle)
	return t, errno.OrNil(eno)
}

func (a *MutexAttr) SetProtocol(p MutexProtocol) error {
	return errno.OrNil(sysc.MutexAttrSetProtocol(a.handle, p))
}

func (a *MutexAttr) GetProtocol() (MutexProtocol, error) {
	p, eno := sysc.MutexAttrGetProtocol(a.handle)
	return p, errno.OrNil(eno)
}

func (a *MutexAttr) SetPrioCeiling(ceiling int) error {
	return errno.OrNil(sysc.MutexAttrSetPrioCeiling(a.handle, ceiling))
}

func (a *MutexAttr) GetPrioCeiling() (int, error) {
	c, eno := sysc.MutexAttrGetPrioCeiling(a.handle)
	return c, errno.OrNil(eno)
}

// Mutex is a POSIX-style mutex: NORMAL (default), RECURSIVE, or ERRORCHECK,
// selected via MutexAttr. The zero value is NOT usable; call Init first,
// mirroring PTHREAD_MUTEX_INITIALIZER's requirement that the storage still
// be "initialized" conceptually, just without a runtime call in C — here
// there is no static-initializer trick, so Init is mandatory.
type Mutex struct {
	handle int64
}

// Init prepares m for use. attr may be nil for a default NORMAL mutex.
func (m *Mutex) Init(attr *MutexAttr) error {
	var ah int64
	if attr != nil {
		ah = attr.handle
	}
	m.handle = sysc.MutexInit(ah)
	return nil
}

func (m *Mutex) Destroy() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncMutexDestroy, m.handle, 0, 0, 0))
	return errno.OrNil(eno)
}

// Lock blocks until the calling thread owns m. Matches C semantics under
// concurrent contention: for a NORMAL mutex, relocking from the owner
// deadlocks (by design — see internal/kernel.MutexLock); RECURSIVE
// increments a per-owner count; ERRORCHECK returns EDEADLK instead of
// blocking.
func (m *Mutex) Lock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncMutexLock, m.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

// TryLock attempts to lock m without blocking. It never inspects any local
// state: the attempt and its outcome are decided entirely by the kernel, so
// a racing Lock/Unlock elsewhere can never be missed or double-counted.
func (m *Mutex) TryLock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncMutexTryLock, m.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

func (m *Mutex) Unlock() error {
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncMutexUnlock, m.handle, int64(Self()), 0, 0))
	return errno.OrNil(eno)
}

// Handle exposes the raw kernel handle, used by Cond to pair itself with
// the mutex a waiter currently holds.
func (m *Mutex) Handle() int64 { return m.handle }

// Owner returns the id of the thread currently holding m, and whether m is
// locked at all. Diagnostic only — never use this to decide whether to
// Lock/TryLock, which would reintroduce exactly the race TryLock's
// kernel-only design avoids.
func (m *Mutex) Owner() (ID, bool) {
	owner, locked := sysc.MutexOwner(m.handle)
	return ID(owner), locked
}

package pthread

import (
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

// condMagic tags an initialized Cond, client-side, the same way spin.Lock
// tags itself: catching use-after-destroy and type confusion (e.g. a Mutex's
// memory reinterpreted as a Cond) without a round trip through the kernel.
const condMagic uint32 = 0xC0DEC0DE

// Cond is a POSIX condition variable, always used alongside a Mutex held by
// the waiting thread. The zero value is NOT usable; call Init first.
type Cond struct {
	handle int64
	magic  uint32
}

func (c *Cond) Init() error {
	c.handle = sysc.CondInit()
	c.magic = condMagic
	return nil
}

func (c *Cond) Destroy() error {
	if c.magic != condMagic {
		return errno.EINVAL
	}
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncCondDestroy, c.handle, 0, 0, 0))
	if eno == errno.OK {
		c.magic = 0
	}
	return errno.OrNil(eno)
}

// Wait atomically unlocks m and blocks the calling thread on c, then
// relocks m before returning, even if it returns an error.
func (c *Cond) Wait(m *Mutex) error {
	if c.magic != condMagic {
		return errno.EINVAL
	}
	eno := sysc.CondWait(c.handle, m.Handle(), int64(Self()), -1)
	return errno.OrNil(eno)
}

// TimedWait is Wait bounded by deadline (absolute, as returned by
// time.Now().Add(d)). Returns ETIMEDOUT if deadline passes before a signal,
// still having relocked m. The absolute-to-relative-milliseconds
// conversion saturates at the 32-bit maximum instead of overflowing, and a
// deadline already in the past is treated as an immediate timeout.
func (c *Cond) TimedWait(m *Mutex, deadline time.Time) error {
	if c.magic != condMagic {
		return errno.EINVAL
	}
	ms := errno.DeadlineMillis(time.Now(), deadline)
	eno := sysc.CondWait(c.handle, m.Handle(), int64(Self()), int64(ms))
	return errno.OrNil(eno)
}

// Signal wakes at most one thread blocked in Wait/TimedWait on c.
func (c *Cond) Signal() error {
	if c.magic != condMagic {
		return errno.EINVAL
	}
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncCondSignal, c.handle, 0, 0, 0))
	return errno.OrNil(eno)
}

// Broadcast wakes every thread blocked in Wait/TimedWait on c.
func (c *Cond) Broadcast() error {
	if c.magic != condMagic {
		return errno.EINVAL
	}
	eno := errno.Errno(-sysc.Dispatch(sysc.CategorySync, sysc.OpSyncCondBroadcast, c.handle, 0, 0, 0))
	return errno.OrNil(eno)
}

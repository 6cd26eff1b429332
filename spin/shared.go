package spin

import (
	"time"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/internal/kernel/shm"
)

// Shared is a spinlock whose lock word lives in a named shm segment: any
// number of handles that Create or Attach the same path contend for the
// same lock word. Path is only the segment's name, a stand-in for the
// reference's /U/SHM/<name> namespace; no file is created, and the segment
// lives in this process's memory, so handles in other OS processes do not
// share it.
type Shared struct {
	path     string
	attached bool
}

// Create initializes the segment at path and attaches to it, the "first
// opener" role.
func Create(path string) (*Shared, error) {
	if eno := shm.CreateSpin(path); eno != errno.OK {
		return nil, eno
	}
	return &Shared{path: path, attached: true}, nil
}

// Attach joins an already-created segment at path, blocking until the
// creator has published it.
func Attach(path string) (*Shared, error) {
	if eno := shm.AttachSpin(path); eno != errno.OK {
		return nil, eno
	}
	return &Shared{path: path, attached: true}, nil
}

// Detach leaves the segment, destroying it once the last attacher leaves.
func (s *Shared) Detach() error {
	if !s.attached {
		return errno.EINVAL
	}
	_, eno := shm.DetachSpin(s.path)
	s.attached = false
	return errno.OrNil(eno)
}

func (s *Shared) TryLock() bool {
	return shm.TryLock(s.path)
}

func (s *Shared) Lock() {
	backoff := time.Microsecond
	for !s.TryLock() {
		if backoff < maxBackoff {
			time.Sleep(backoff)
			backoff *= 2
		} else {
			time.Sleep(maxBackoff)
		}
	}
}

func (s *Shared) Unlock() {
	shm.Unlock(s.path)
}

// Package shm models the kernel's named shared-memory segments used by the
// cross-process spinlock and named semaphores. A real trap would map a
// segment under /U/SHM/<name> into every attaching process's address
// space; this runtime has no second OS process of its own to map into, so
// a segment is instead a single in-memory backing buffer, keyed by name,
// that every attacher within this process reads and writes through
// encoding/binary in host byte order, exactly as the real layout would.
// Segments are not visible to other OS processes.
package shm

import (
	"encoding/binary"
	"sync"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

// SpinLayout mirrors the on-disk struct a shared spinlock segment holds:
// {lock int32; refcount int32; initialized int32}, the minimum state
// needed for attach/detach refcounting plus the lock word itself.
type SpinLayout struct {
	Lock        int32
	RefCount    int32
	Initialized int32
}

const spinLayoutSize = 12 // 3 x int32, matches SpinLayout's field order

var byteOrder = binary.NativeEndian

func encodeSpin(l SpinLayout) []byte {
	buf := make([]byte, spinLayoutSize)
	byteOrder.PutUint32(buf[0:4], uint32(l.Lock))
	byteOrder.PutUint32(buf[4:8], uint32(l.RefCount))
	byteOrder.PutUint32(buf[8:12], uint32(l.Initialized))
	return buf
}

func decodeSpin(buf []byte) SpinLayout {
	return SpinLayout{
		Lock:        int32(byteOrder.Uint32(buf[0:4])),
		RefCount:    int32(byteOrder.Uint32(buf[4:8])),
		Initialized: int32(byteOrder.Uint32(buf[8:12])),
	}
}

type segment struct {
	mu  sync.Mutex
	buf []byte
}

var (
	segmentsMu sync.Mutex
	segments   = map[string]*segment{}
)

func segmentFor(path string) *segment {
	segmentsMu.Lock()
	defer segmentsMu.Unlock()
	seg, ok := segments[path]
	if !ok {
		seg = &segment{buf: make([]byte, spinLayoutSize)}
		segments[path] = seg
	}
	return seg
}

// CreateSpin creates (or re-attaches to, if already created by a concurrent
// caller in this process) the spinlock segment at path, publishing
// Initialized last so Attach's spin-wait has a well-defined signal.
func CreateSpin(path string) errno.Errno {
	seg := segmentFor(path)
	seg.mu.Lock()
	defer seg.mu.Unlock()
	l := decodeSpin(seg.buf)
	if l.Initialized != 0 {
		l.RefCount++
		copy(seg.buf, encodeSpin(l))
		return errno.OK
	}
	l = SpinLayout{RefCount: 1}
	copy(seg.buf, encodeSpin(l))
	l.Initialized = 1
	copy(seg.buf, encodeSpin(l))
	return errno.OK
}

// AttachSpin waits for path's segment to report Initialized, then bumps
// its refcount.
func AttachSpin(path string) errno.Errno {
	seg := segmentFor(path)
	for {
		seg.mu.Lock()
		l := decodeSpin(seg.buf)
		if l.Initialized != 0 {
			l.RefCount++
			copy(seg.buf, encodeSpin(l))
			seg.mu.Unlock()
			return errno.OK
		}
		seg.mu.Unlock()
	}
}

// DetachSpin decrements path's refcount, tearing down the segment (and
// returning true) once it reaches zero.
func DetachSpin(path string) (destroyed bool, eno errno.Errno) {
	seg := segmentFor(path)
	seg.mu.Lock()
	defer seg.mu.Unlock()
	l := decodeSpin(seg.buf)
	if l.Initialized == 0 {
		return false, errno.EINVAL
	}
	l.RefCount--
	if l.RefCount <= 0 {
		segmentsMu.Lock()
		delete(segments, path)
		segmentsMu.Unlock()
		return true, errno.OK
	}
	copy(seg.buf, encodeSpin(l))
	return false, errno.OK
}

// TryLock attempts a CAS on path's lock word: unlocked(0) -> locked(1).
func TryLock(path string) bool {
	seg := segmentFor(path)
	seg.mu.Lock()
	defer seg.mu.Unlock()
	l := decodeSpin(seg.buf)
	if l.Lock != 0 {
		return false
	}
	l.Lock = 1
	copy(seg.buf, encodeSpin(l))
	return true
}

func Unlock(path string) {
	seg := segmentFor(path)
	seg.mu.Lock()
	defer seg.mu.Unlock()
	l := decodeSpin(seg.buf)
	l.Lock = 0
	copy(seg.buf, encodeSpin(l))
}

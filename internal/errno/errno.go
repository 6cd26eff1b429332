// Package errno defines the POSIX-style error codes shared by every layer
// of the runtime, and the helpers for moving between the façade's negated
// return-value convention and the pthread-family's direct-error-value
// convention.
package errno

import "fmt"

// Errno is a POSIX error number. It implements error so it can be returned
// directly from pthread-family functions: those functions return the errno
// value as their result rather than setting a global errno.
type Errno int

const (
	// Success, spelled out so callers can compare against it explicitly
	// instead of against the untyped literal 0.
	OK Errno = 0

	EPERM        Errno = 1
	ENOENT       Errno = 2
	ESRCH        Errno = 3
	EINTR        Errno = 4
	EIO          Errno = 5
	EAGAIN       Errno = 11
	ENOMEM       Errno = 12
	EACCES       Errno = 13
	EBUSY        Errno = 16
	EEXIST       Errno = 17
	EINVAL       Errno = 22
	ENOSYS       Errno = 38
	ENAMETOOLONG Errno = 36
	ERANGE       Errno = 34
	EDEADLK      Errno = 35
	ETIMEDOUT    Errno = 110
	EOVERFLOW    Errno = 75
)

var names = map[Errno]string{
	OK:           "success",
	EPERM:        "operation not permitted",
	ENOENT:       "no such file or directory",
	ESRCH:        "no such process or thread",
	EINTR:        "interrupted",
	EIO:          "i/o error",
	EAGAIN:       "resource temporarily unavailable",
	ENOMEM:       "cannot allocate memory",
	EACCES:       "permission denied",
	EBUSY:        "device or resource busy",
	EEXIST:       "already exists",
	EINVAL:       "invalid argument",
	ENOSYS:       "function not implemented",
	ENAMETOOLONG: "name too long",
	ERANGE:       "result out of range",
	EDEADLK:      "resource deadlock would occur",
	ETIMEDOUT:    "timed out",
	EOVERFLOW:    "value too large",
}

// Error implements error.
func (e Errno) Error() string {
	if s, ok := names[e]; ok {
		return s
	}
	return fmt.Sprintf("errno %d", int(e))
}

// OrNil returns nil if e is OK, else e. Most pthread_* wrappers end with
// `return errno.OrNil(x)` so a zero Errno never leaks out as a non-nil error.
func OrNil(e Errno) error {
	if e == OK {
		return nil
	}
	return e
}

// FromNeg converts a façade-style negated-errno return value (see sysc.Dispatch)
// into (value, Errno). A non-negative v is treated as a successful result.
func FromNeg(v int64) (int64, Errno) {
	if v < 0 {
		return 0, Errno(-v)
	}
	return v, OK
}

// Neg encodes e as a façade-style return value: -errno, or 0 for success.
func Neg(e Errno) int64 {
	return -int64(e)
}

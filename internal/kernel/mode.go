package kernel

import "sync/atomic"

// multithreaded tracks whether more than the initial thread has ever been
// created. It is a one-way flag: once set, it never resets, since a
// process that has gone multithreaded stays multithreaded even if every
// other thread later exits.
var multithreaded atomic.Bool

// IsMultithreaded reports whether pthread_create has ever been called.
func IsMultithreaded() bool {
	return multithreaded.Load()
}

// markMultithreaded flips the flag. Idempotent; called once a second thread
// is registered.
func markMultithreaded() {
	multithreaded.Store(true)
}

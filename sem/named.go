package sem

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

// NameMax is SEM_NAME_MAX: the longest name allowed after the leading "/".
const NameMax = 4

const (
	OCreate = 1 << iota
	OExcl
)

var openGroup singleflight.Group

type namedEntry struct {
	mu       sync.Mutex
	refCount int
	unlinked bool
}

var (
	namedMu sync.Mutex
	named   = map[string]*namedEntry{}
)

// Open creates or attaches to a named semaphore. name must start with "/"
// and contain no further "/", matching sem_open's naming rule; flags is
// OCreate optionally combined with OExcl. Concurrent Open calls for the
// same name, within this process, are deduplicated through a
// singleflight.Group so only one of them performs the underlying create.
func Open(name string, flags int, initial uint32) (*T, error) {
	if len(name) < 2 || name[0] != '/' || strings.Contains(name[1:], "/") {
		return nil, fail(errno.EINVAL)
	}
	if name[1] == '_' {
		return nil, fail(errno.ENOENT)
	}
	if len(name)-1 > NameMax {
		return nil, fail(errno.ENAMETOOLONG)
	}
	if initial > ValueMax {
		return nil, fail(errno.EINVAL)
	}

	id := idFor(name[1:])

	_, err, _ := openGroup.Do(name, func() (any, error) {
		namedMu.Lock()
		entry, exists := named[name]
		if exists {
			entry.mu.Lock()
			switch {
			case entry.unlinked:
				entry.mu.Unlock()
				namedMu.Unlock()
				return nil, errno.ENOENT
			case flags&OCreate != 0 && flags&OExcl != 0:
				entry.mu.Unlock()
				namedMu.Unlock()
				return nil, errno.EEXIST
			default:
				entry.refCount++
				entry.mu.Unlock()
				namedMu.Unlock()
				return nil, nil
			}
		}
		if flags&OCreate == 0 {
			namedMu.Unlock()
			return nil, errno.ENOENT
		}
		named[name] = &namedEntry{refCount: 1}
		namedMu.Unlock()

		if eno := sysc.NamedSemCreate(id); eno != errno.OK && eno != errno.EEXIST {
			return nil, eno
		}
		initCount(id, int32(initial))
		return nil, nil
	})
	if err != nil {
		if e, ok := err.(errno.Errno); ok {
			return nil, fail(e)
		}
		return nil, err
	}

	return &T{m: modeSingleThreaded, id: id, name: name}, nil
}

// Close drops this process's handle to a named semaphore, without removing
// it from the namespace (that's Unlink's job).
func (s *T) Close() error {
	if s.name == "" {
		return fail(errno.EINVAL)
	}
	namedMu.Lock()
	entry, ok := named[s.name]
	namedMu.Unlock()
	if !ok {
		return fail(errno.EINVAL)
	}
	entry.mu.Lock()
	entry.refCount--
	shouldReap := entry.unlinked && entry.refCount <= 0
	entry.mu.Unlock()
	if shouldReap {
		reap(s.name, s.id, entry)
	}
	return nil
}

// Unlink removes name from the namespace; the underlying semaphore is
// destroyed once every process that still has it open has called Close,
// watched for by a background goroutine rather than the reference's
// fork-and-wait (this runtime has no separate process to fork into, and
// the reference's own comments note a background task is an acceptable
// substitute).
func Unlink(name string) error {
	namedMu.Lock()
	entry, ok := named[name]
	namedMu.Unlock()
	if !ok {
		return fail(errno.ENOENT)
	}
	entry.mu.Lock()
	entry.unlinked = true
	refs := entry.refCount
	entry.mu.Unlock()

	id := idFor(name[1:])
	if refs <= 0 {
		reap(name, id, entry)
		return nil
	}

	go func() {
		for {
			time.Sleep(10 * time.Millisecond)
			entry.mu.Lock()
			done := entry.refCount <= 0
			entry.mu.Unlock()
			if done {
				reap(name, id, entry)
				return
			}
		}
	}()
	return nil
}

// reap tears down name's underlying semaphore, but only if the registry
// still points at this exact entry: a name can be fully unlinked, closed,
// and reopened (a fresh entry) before a background reaper scheduled for the
// old entry gets a chance to run, and that stale reaper must not delete the
// new one.
func reap(name, id string, entry *namedEntry) {
	namedMu.Lock()
	current := named[name] == entry
	if current {
		delete(named, name)
	}
	namedMu.Unlock()
	if !current {
		// name was already unlinked, closed, and reopened under a fresh
		// entry by the time this (possibly stale, background-scheduled)
		// reap ran; the new entry owns the underlying resource now.
		return
	}
	deleteCount(id)
	sysc.NamedSemDestroy(id)
}

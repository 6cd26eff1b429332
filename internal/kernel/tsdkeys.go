package kernel

import (
	"sync"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

// tsdKeyRegistry tracks the optional destructor for each TSD key created
// via pthread_key_create, so thread exit can run it against that thread's
// final value for the key, when that value is non-nil.
var (
	tsdKeysMu sync.Mutex
	tsdKeys   = map[int64]func(value any){}
)

func TSDCreateKey(destructor func(value any)) int64 {
	h := nextHandle()
	tsdKeysMu.Lock()
	tsdKeys[h] = destructor
	tsdKeysMu.Unlock()
	return h
}

func TSDDeleteKey(h int64) errno.Errno {
	tsdKeysMu.Lock()
	defer tsdKeysMu.Unlock()
	if _, ok := tsdKeys[h]; !ok {
		return errno.EINVAL
	}
	delete(tsdKeys, h)
	return errno.OK
}

func tsdDestructor(h int64) func(value any) {
	tsdKeysMu.Lock()
	defer tsdKeysMu.Unlock()
	return tsdKeys[h]
}

// runTSDDestructors is invoked by finishThread after the cleanup stack has
// unwound, matching the ordering used by glibc: cleanup handlers, then TSD
// destructors.
func runTSDDestructors(values map[int64]any) {
	for key, value := range values {
		if value == nil {
			continue
		}
		if d := tsdDestructor(key); d != nil {
			func() {
				defer func() { recover() }()
				d(value)
			}()
		}
	}
}

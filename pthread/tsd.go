package pthread

import (
	"sync/atomic"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/sysc"
)

// Key identifies one slot of thread-specific data, shared by every thread
// but holding a distinct value per thread.
type Key struct {
	handle int64
}

// CreateKey allocates a new Key. destructor, if non-nil, runs against a
// thread's final value for this key when that thread exits, provided the
// value is non-nil — it does not run for threads that never called Set.
func CreateKey(destructor func(value any)) Key {
	return Key{handle: sysc.TSDCreateKey(destructor)}
}

func (k Key) Delete() error {
	return errno.OrNil(sysc.TSDDeleteKey(k.handle))
}

func (k Key) Get() any {
	return sysc.TSDGet(int64(Self()), k.handle)
}

func (k Key) Set(value any) {
	sysc.TSDSet(int64(Self()), k.handle, value)
}

// onceState values, matching the three-state machine a race-free Once
// needs: a thread that observes RUNNING must block until DONE rather than
// racing the initializer, which the naive two-state (done bool under a
// mutex checked with a non-blocking TryLock) design cannot express.
const (
	onceUninit int32 = iota
	onceRunning
	onceDone
)

// Once runs a function exactly once across any number of threads, and
// guarantees every caller - including ones that arrive while the function
// is still running - doesn't return until it has finished.
type Once struct {
	state int32
	mu    Mutex
	cv    Cond
	init  int32 // guards lazy mu/cv.Init, 0/1
}

func (o *Once) ensureInit() {
	if atomic.CompareAndSwapInt32(&o.init, 0, 1) {
		_ = o.mu.Init(nil)
		_ = o.cv.Init()
	} else {
		for atomic.LoadInt32(&o.init) != 1 {
			Yield()
		}
	}
}

// Do calls fn if, and only if, Do is being called for the first time on o.
// Every other concurrent caller blocks until that first call returns.
func (o *Once) Do(fn func()) {
	if atomic.LoadInt32(&o.state) == onceDone {
		return
	}
	o.ensureInit()

	if !atomic.CompareAndSwapInt32(&o.state, onceUninit, onceRunning) {
		// either already done, or another thread is running fn: wait for DONE.
		_ = o.mu.Lock()
		for atomic.LoadInt32(&o.state) != onceDone {
			_ = o.cv.Wait(&o.mu)
		}
		o.mu.Unlock()
		return
	}

	fn()

	_ = o.mu.Lock()
	atomic.StoreInt32(&o.state, onceDone)
	_ = o.cv.Broadcast()
	o.mu.Unlock()
}

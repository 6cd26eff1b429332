package kernel

import (
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

// ThreadState mirrors the lifecycle a kernel thread object moves through.
type ThreadState int

const (
	StateRunning ThreadState = iota
	StateZombie              // exited, not yet joined, not detached
	StateDetached
	StateReaped
)

const (
	CancelEnable  = 0
	CancelDisable = 1

	CancelDeferred     = 0
	CancelAsynchronous = 1

	MaxNameLen = 15 // + NUL, matching pthread_setname_np's 16-byte buffer
)

type cleanupEntry struct {
	routine func(arg any)
	arg     any
}

// ThreadRecord is the kernel's view of one thread (goroutine). Every field
// below is either owned exclusively by the thread itself (name, cancel
// state/type, cleanup stack, TSD values - never touched concurrently by
// another goroutine except at join/cancel/exit, which are the documented
// exceptions) or guarded by mu.
type ThreadRecord struct {
	id       int64
	mu       sync.Mutex
	name     string
	state    ThreadState
	detached bool
	retval   any

	cancelState   int
	cancelType    int
	cancelPending bool

	cleanup []cleanupEntry
	tsd     map[int64]any

	sigMask uint64

	done chan struct{} // closed when the thread transitions to Zombie/Detached-exit
}

var (
	threadsMu sync.Mutex
	threads   = map[int64]*ThreadRecord{}

	initialThreadID int64
	initialOnce      sync.Once
)

// Bootstrap registers the calling (initial/main) thread the first time any
// kernel op is used, so Self()/IsInitialThread() work before the caller has
// explicitly created any thread.
func bootstrapInitialThread() *ThreadRecord {
	initialOnce.Do(func() {
		t := &ThreadRecord{
			id:          nextHandle(),
			state:       StateRunning,
			cancelState: CancelEnable,
			cancelType:  CancelDeferred,
			tsd:         map[int64]any{},
			done:        make(chan struct{}),
		}
		threadsMu.Lock()
		threads[t.id] = t
		threadsMu.Unlock()
		initialThreadID = t.id
		currentThreadID.Set(t.id)
	})
	return lookup(initialThreadID)
}

// currentThreadID is a goroutine-local-ish association: since Go has no
// built-in thread-local storage, every entry point that runs "as" a pthread
// (Create's spawned goroutine, plus the bootstrap of the initial thread)
// stashes its id in this per-goroutine slot via a goroutine-keyed map. This
// is the same shape of problem thread-specific data solves for user code;
// the kernel needs the analogous mechanism for itself to implement Self().
var currentThreadID = newGoroutineLocal[int64]()

func lookup(id int64) *ThreadRecord {
	threadsMu.Lock()
	defer threadsMu.Unlock()
	return threads[id]
}

// ListLive returns the ids of every thread record still in the table
// (running, zombie, or detached — anything short of reaped), in ascending
// order, for introspection/demo purposes.
func ListLive() []int64 {
	threadsMu.Lock()
	ids := maps.Keys(threads)
	threadsMu.Unlock()
	slices.Sort(ids)
	return ids
}

// Create spawns fn(arg) on a new goroutine, registers a ThreadRecord, and
// returns its id. The stack size is validated by the caller (pthread.Create)
// and never reaches here; Create allocates nothing per stack size.
func Create(detached bool, fn func(arg any) any, arg any) (id int64, eno errno.Errno) {
	bootstrapInitialThread()

	t := &ThreadRecord{
		id:          nextHandle(),
		state:       StateRunning,
		detached:    detached,
		cancelState: CancelEnable,
		cancelType:  CancelDeferred,
		tsd:         map[int64]any{},
		done:        make(chan struct{}),
	}
	threadsMu.Lock()
	threads[t.id] = t
	threadsMu.Unlock()
	markMultithreaded()

	go func() {
		currentThreadID.Set(t.id)
		ret := fn(arg)
		finishThread(t, ret)
	}()

	return t.id, errno.OK
}

func finishThread(t *ThreadRecord, ret any) {
	t.mu.Lock()
	// run cleanup stack LIFO, most-recently-pushed handler first
	stack := t.cleanup
	t.cleanup = nil
	t.retval = ret
	t.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		func() {
			defer func() { recover() }()
			entry.routine(entry.arg)
		}()
	}

	t.mu.Lock()
	tsd := t.tsd
	t.tsd = map[int64]any{}
	if t.detached {
		t.state = StateDetached
	} else {
		t.state = StateZombie
	}
	t.mu.Unlock()
	runTSDDestructors(tsd)
	close(t.done)

	errno.ClearLast(t.id)
	currentThreadID.Clear()
}

// Self returns the id of the calling thread, bootstrapping the initial
// thread record if this is the first call made from the process's original
// goroutine.
func Self() int64 {
	if id, ok := currentThreadID.Get(); ok {
		return id
	}
	return bootstrapInitialThread().id
}

func IsInitialThread() bool {
	return Self() == initialThreadID
}

// Exit marks the calling thread finished with the given return value. Unlike
// real pthread_exit, a goroutine cannot be unwound from the outside, so Exit
// is only meaningful when called from the thread's own entry function; the
// pthread package implements it via a panic/recover sentinel so it can be
// called from arbitrary call depth, same as the real pthread_exit's use of
// stack unwinding.
func Exit(ret any) {
	panic(exitSentinel{ret})
}

type exitSentinel struct{ ret any }

// RunEntry invokes fn(arg), catching the Exit sentinel so pthread_exit
// behaves like the real thing: it terminates only the calling thread.
func RunEntry(fn func(arg any) any, arg any) (ret any) {
	defer func() {
		if r := recover(); r != nil {
			if sentinel, ok := r.(exitSentinel); ok {
				ret = sentinel.ret
				return
			}
			panic(r)
		}
	}()
	return fn(arg)
}

func Join(id int64, callerID int64) (any, errno.Errno) {
	if id == callerID {
		return nil, errno.EDEADLK
	}
	t := lookup(id)
	if t == nil {
		return nil, errno.ESRCH
	}
	t.mu.Lock()
	if t.detached || t.state == StateDetached {
		t.mu.Unlock()
		return nil, errno.EINVAL
	}
	t.mu.Unlock()

	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateReaped {
		return nil, errno.ESRCH
	}
	ret := t.retval
	t.state = StateReaped
	threadsMu.Lock()
	delete(threads, id)
	threadsMu.Unlock()
	return ret, errno.OK
}

func TryJoin(id int64, callerID int64) (any, errno.Errno) {
	if id == callerID {
		return nil, errno.EDEADLK
	}
	t := lookup(id)
	if t == nil {
		return nil, errno.ESRCH
	}
	select {
	case <-t.done:
	default:
		return nil, errno.EBUSY
	}
	return Join(id, callerID)
}

func Detach(id int64) errno.Errno {
	t := lookup(id)
	if t == nil {
		return errno.ESRCH
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return errno.EINVAL
	}
	t.detached = true
	if t.state == StateZombie {
		t.state = StateDetached
	}
	return errno.OK
}

func Equal(a, b int64) bool { return a == b }

func Yield() {
	// time.Sleep(0) is the conventional Go stand-in for sched_yield(2): it
	// hands the P to another runnable goroutine without a real delay.
	time.Sleep(0)
}

func SleepMillis(ms int64) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func SetName(id int64, name string) errno.Errno {
	if len(name) > MaxNameLen {
		return errno.ERANGE
	}
	t := lookup(id)
	if t == nil {
		return errno.ESRCH
	}
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
	return errno.OK
}

func GetName(id int64) (string, errno.Errno) {
	t := lookup(id)
	if t == nil {
		return "", errno.ESRCH
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name, errno.OK
}

// --- cancellation ---

func SetCancelState(id int64, state int) (old int, eno errno.Errno) {
	if state != CancelEnable && state != CancelDisable {
		return 0, errno.EINVAL
	}
	t := lookup(id)
	if t == nil {
		return 0, errno.ESRCH
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	old = t.cancelState
	t.cancelState = state
	return old, errno.OK
}

func SetCancelType(id int64, typ int) (old int, eno errno.Errno) {
	if typ != CancelDeferred && typ != CancelAsynchronous {
		return 0, errno.EINVAL
	}
	t := lookup(id)
	if t == nil {
		return 0, errno.ESRCH
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	old = t.cancelType
	t.cancelType = typ
	return old, errno.OK
}

func Cancel(id int64) errno.Errno {
	t := lookup(id)
	if t == nil {
		return errno.ESRCH
	}
	t.mu.Lock()
	t.cancelPending = true
	async := t.cancelType == CancelAsynchronous && t.cancelState == CancelEnable
	t.mu.Unlock()
	if async {
		// An asynchronous-cancellation thread may be terminated at any point;
		// the closest safe Go analogue is to deliver it the same way a
		// deferred cancellation is observed, at the next cancellation point,
		// since truly preempting an arbitrary goroutine is not possible
		// without runtime support. ASYNCHRONOUS is therefore delivered the
		// same way as DEFERRED.
	}
	return errno.OK
}

// TestCancel delivers a pending deferred cancellation if the calling
// thread's cancel state is enabled. Returns true if the caller should
// terminate (by panicking with the exit sentinel).
func TestCancel(id int64) bool {
	t := lookup(id)
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelPending && t.cancelState == CancelEnable {
		t.cancelPending = false
		return true
	}
	return false
}

// --- cleanup stack ---

func CleanupPush(id int64, routine func(arg any), arg any) {
	t := lookup(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	t.cleanup = append(t.cleanup, cleanupEntry{routine, arg})
	t.mu.Unlock()
}

func CleanupPop(id int64, execute bool) {
	t := lookup(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	n := len(t.cleanup)
	if n == 0 {
		t.mu.Unlock()
		return
	}
	entry := t.cleanup[n-1]
	t.cleanup = t.cleanup[:n-1]
	t.mu.Unlock()
	if execute {
		entry.routine(entry.arg)
	}
}

// --- thread-specific data ---

func TSDGet(threadID, key int64) any {
	t := lookup(threadID)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tsd[key]
}

func TSDSet(threadID, key int64, value any) {
	t := lookup(threadID)
	if t == nil {
		return
	}
	t.mu.Lock()
	t.tsd[key] = value
	t.mu.Unlock()
}

// TSDSnapshotAndClear removes every key, returning the final values so the
// caller can run destructors, per POSIX's key_create contract.
func TSDSnapshotAndClear(threadID int64) map[int64]any {
	t := lookup(threadID)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.tsd
	t.tsd = map[int64]any{}
	return snap
}

// Package atomic wraps sync/atomic with the names and signatures the
// reference kernel's atomic syscall category exposes: CAS, Exchange, Add,
// Sub, And, Or, Xor, Increment, Decrement. The original kernel mediates
// these through a trap because the underlying hardware instruction needs
// interrupts disabled on a uniprocessor; Go's runtime and memory model
// already give every goroutine a real, coherent view of any *int32/*int64,
// so there is no trap to simulate here, only the call shape to preserve for
// the rest of the module to build on.
package atomic

import "sync/atomic"

func CAS32(addr *int32, old, new int32) bool {
	return atomic.CompareAndSwapInt32(addr, old, new)
}

func CAS64(addr *int64, old, new int64) bool {
	return atomic.CompareAndSwapInt64(addr, old, new)
}

func Exchange32(addr *int32, val int32) int32 {
	return atomic.SwapInt32(addr, val)
}

func Exchange64(addr *int64, val int64) int64 {
	return atomic.SwapInt64(addr, val)
}

func Add32(addr *int32, delta int32) int32 { return atomic.AddInt32(addr, delta) }
func Add64(addr *int64, delta int64) int64 { return atomic.AddInt64(addr, delta) }

func Sub32(addr *int32, delta int32) int32 { return atomic.AddInt32(addr, -delta) }
func Sub64(addr *int64, delta int64) int64 { return atomic.AddInt64(addr, -delta) }

func Increment32(addr *int32) int32 { return atomic.AddInt32(addr, 1) }
func Decrement32(addr *int32) int32 { return atomic.AddInt32(addr, -1) }

func Load32(addr *int32) int32 { return atomic.LoadInt32(addr) }
func Store32(addr *int32, val int32) { atomic.StoreInt32(addr, val) }

// And/Or/Xor have no direct sync/atomic equivalent for plain int32, so
// they're built on top of a CAS retry loop, same technique the module uses
// elsewhere (sem.TryWait, spin.Lock) for lock-free updates.

func And32(addr *int32, mask int32) int32 {
	for {
		old := atomic.LoadInt32(addr)
		next := old & mask
		if atomic.CompareAndSwapInt32(addr, old, next) {
			return next
		}
	}
}

func Or32(addr *int32, mask int32) int32 {
	for {
		old := atomic.LoadInt32(addr)
		next := old | mask
		if atomic.CompareAndSwapInt32(addr, old, next) {
			return next
		}
	}
}

func Xor32(addr *int32, mask int32) int32 {
	for {
		old := atomic.LoadInt32(addr)
		next := old ^ mask
		if atomic.CompareAndSwapInt32(addr, old, next) {
			return next
		}
	}
}

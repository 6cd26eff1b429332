package atomic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCAS32(t *testing.T) {
	var v int32 = 5
	require.False(t, CAS32(&v, 4, 9))
	require.Equal(t, int32(5), v)
	require.True(t, CAS32(&v, 5, 9))
	require.Equal(t, int32(9), v)
}

func TestExchangeAndArith(t *testing.T) {
	var v int64 = 10
	require.Equal(t, int64(10), Exchange64(&v, 20))
	require.Equal(t, int64(20), v)
	require.Equal(t, int64(25), Add64(&v, 5))
	require.Equal(t, int64(20), Sub64(&v, 5))

	var v32 int32
	require.Equal(t, int32(1), Increment32(&v32))
	require.Equal(t, int32(0), Decrement32(&v32))
}

func TestBitwiseRetryLoop(t *testing.T) {
	var v int32 = 0b1010
	require.Equal(t, int32(0b1000), And32(&v, 0b1100))
	require.Equal(t, int32(0b1001), Or32(&v, 0b0001))
	require.Equal(t, int32(0b0000), Xor32(&v, 0b1001))
}

// concurrent increments, to exercise Increment32 under real contention
// rather than just its single-threaded happy path.
func TestIncrement32Concurrent(t *testing.T) {
	var v int32
	var wg sync.WaitGroup
	const goroutines, perGoroutine = 50, 200
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				Increment32(&v)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(goroutines*perGoroutine), Load32(&v))
}

package pthread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

func TestCreateJoin(t *testing.T) {
	id, err := Create(nil, func(arg any) any {
		return arg.(int) * 2
	}, 21)
	require.NoError(t, err)

	ret, err := Join(id)
	require.NoError(t, err)
	require.Equal(t, 42, ret)
}

func TestJoinSelfDeadlocks(t *testing.T) {
	_, err := Join(Self())
	require.ErrorIs(t, err, errno.EDEADLK)
}

func TestDetachRejectsJoin(t *testing.T) {
	done := make(chan struct{})
	id, err := Create(&Attr{Detached: true}, func(arg any) any {
		<-done
		return nil
	}, nil)
	require.NoError(t, err)

	_, err = Join(id)
	require.Error(t, err)
	close(done)
}

func TestTryJoinBusyThenReady(t *testing.T) {
	release := make(chan struct{})
	id, err := Create(nil, func(arg any) any {
		<-release
		return "done"
	}, nil)
	require.NoError(t, err)

	_, err = TryJoin(id)
	require.Error(t, err)

	close(release)
	require.Eventually(t, func() bool {
		ret, err := TryJoin(id)
		return err == nil && ret == "done"
	}, time.Second, time.Millisecond)
}

func TestSetGetName(t *testing.T) {
	id, err := Create(nil, func(arg any) any {
		time.Sleep(20 * time.Millisecond)
		return nil
	}, nil)
	require.NoError(t, err)
	require.NoError(t, SetName(id, "worker-1"))
	name, err := GetName(id)
	require.NoError(t, err)
	require.Equal(t, "worker-1", name)
	_, _ = Join(id)
}

func TestIsMultithreadedBecomesTrue(t *testing.T) {
	id, err := Create(nil, func(arg any) any { return nil }, nil)
	require.NoError(t, err)
	_, _ = Join(id)
	require.True(t, IsMultithreaded())
}

// Producer/consumer over a bounded ring buffer, driven entirely by
// Mutex+Cond: one producer pushes 1..1000, a consumer drains them in order
// through a capacity-8 ring.
func TestProducerConsumerRing(t *testing.T) {
	const capacity = 8
	const count = 1000

	var mu Mutex
	var notFull, notEmpty Cond
	require.NoError(t, mu.Init(nil))
	require.NoError(t, notFull.Init())
	require.NoError(t, notEmpty.Init())

	ring := make([]int, 0, capacity)
	closed := false

	producer, err := Create(nil, func(arg any) any {
		for i := 1; i <= count; i++ {
			_ = mu.Lock()
			for len(ring) == capacity {
				_ = notFull.Wait(&mu)
			}
			ring = append(ring, i)
			_ = notEmpty.Signal()
			mu.Unlock()
		}
		_ = mu.Lock()
		closed = true
		_ = notEmpty.Broadcast()
		mu.Unlock()
		return nil
	}, nil)
	require.NoError(t, err)

	var received []int
	consumer, err := Create(nil, func(arg any) any {
		for {
			_ = mu.Lock()
			for len(ring) == 0 && !closed {
				_ = notEmpty.Wait(&mu)
			}
			if len(ring) == 0 && closed {
				mu.Unlock()
				return nil
			}
			v := ring[0]
			ring = ring[1:]
			_ = notFull.Signal()
			mu.Unlock()
			received = append(received, v)
		}
	}, nil)
	require.NoError(t, err)

	_, err = Join(producer)
	require.NoError(t, err)
	_, err = Join(consumer)
	require.NoError(t, err)

	require.Len(t, received, count)
	want := make([]int, count)
	for i := range want {
		want[i] = i + 1
	}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("received sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestBarrierFourThreadsThreeTrips(t *testing.T) {
	const threads = 4
	const trips = 3

	var b Barrier
	require.NoError(t, b.Init(threads))

	var tripCounter int64
	var serialCount int64

	// Every participant must be a thread this runtime actually knows about:
	// bare goroutines all collapse onto the bootstrapped initial thread's id
	// (see DESIGN.md), which would make their mutex/cv traffic collide with
	// itself. pthread.Create is what gives each participant a distinct id.
	ids := make([]ID, threads)
	for i := 0; i < threads; i++ {
		id, err := Create(nil, func(arg any) any {
			for trip := 0; trip < trips; trip++ {
				v, err := b.Wait()
				require.NoError(t, err)
				if v == SerialThread {
					atomic.AddInt64(&serialCount, 1)
					atomic.AddInt64(&tripCounter, 1)
				}
			}
			return nil
		}, nil)
		require.NoError(t, err)
		ids[i] = id
	}

	for _, id := range ids {
		_, err := Join(id)
		require.NoError(t, err)
	}
	require.Equal(t, int64(trips), serialCount)
	require.Equal(t, int64(trips), tripCounter)
	require.NoError(t, b.Destroy())
}

func TestOnceFiftyGoroutines(t *testing.T) {
	var once Once
	var calls int64
	const n = 50
	ids := make([]ID, n)
	for i := 0; i < n; i++ {
		id, err := Create(nil, func(arg any) any {
			once.Do(func() {
				atomic.AddInt64(&calls, 1)
			})
			return nil
		}, nil)
		require.NoError(t, err)
		ids[i] = id
	}
	for _, id := range ids {
		_, err := Join(id)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1), calls)
}

package spin

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockTryLockMutualExclusion(t *testing.T) {
	var l Lock
	require.NoError(t, l.Init())

	require.True(t, l.TryLock())
	require.False(t, l.TryLock())
	require.True(t, l.IsHeld())
	l.Unlock()
	require.False(t, l.IsHeld())
	require.True(t, l.TryLock())
	l.Unlock()
	require.NoError(t, l.Destroy())
}

func TestLockDestroyWithoutInit(t *testing.T) {
	var l Lock
	require.Error(t, l.Destroy())
}

// Two goroutines each increment a shared counter 1000 times, serialized only
// through the spinlock, mirroring the "cross-process" shared-spinlock
// increment scenario (here simulated in-process, since this test binary has
// no literal second process).
func TestSharedSpinlockIncrements(t *testing.T) {
	path := fmt.Sprintf("mintlib-rc-test-%s", t.Name())
	s, err := Create(path)
	require.NoError(t, err)
	defer s.Detach()

	const perGoroutine = 1000
	counter := 0
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s.Lock()
				counter++
				s.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 2*perGoroutine, counter)
}

func TestSharedAttachJoinsExistingSegment(t *testing.T) {
	path := fmt.Sprintf("mintlib-rc-test-attach-%s", t.Name())
	creator, err := Create(path)
	require.NoError(t, err)

	creator.Lock()
	joiner, err := Attach(path)
	require.NoError(t, err)
	require.False(t, joiner.TryLock())
	creator.Unlock()
	require.True(t, joiner.TryLock())
	joiner.Unlock()

	require.NoError(t, joiner.Detach())
	require.NoError(t, creator.Detach())
}

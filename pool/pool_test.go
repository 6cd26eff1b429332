package pool

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := New(0, nil)
	require.Error(t, err)
}

// Three workers, 100 tasks, each appending its argument to a shared,
// mutex-protected log; after a graceful Destroy the log holds every
// argument 0..99 exactly once.
func TestThreeWorkersHundredTasks(t *testing.T) {
	p, err := New(3, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	log := make([]int, 0, 100)

	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, p.Add(func(arg any) {
			mu.Lock()
			log = append(log, arg.(int))
			mu.Unlock()
		}, i))
	}

	p.Destroy(true)

	require.Len(t, log, 100)
	sorted := append([]int(nil), log...)
	sort.Ints(sorted)
	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("task argument set mismatch (-want +got):\n%s", diff)
	}

	ran, failed := p.Stats()
	require.EqualValues(t, 100, ran)
	require.EqualValues(t, 0, failed)
}

func TestAddAfterDestroyRejected(t *testing.T) {
	p, err := New(2, nil)
	require.NoError(t, err)
	p.Destroy(false)

	err = p.Add(func(arg any) {}, nil)
	require.Error(t, err)
}

// A task that panics is recovered by the worker loop rather than crashing
// the pool, and gets counted as failed rather than run.
func TestPanickingTaskIsRecovered(t *testing.T) {
	p, err := New(1, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	require.NoError(t, p.Add(func(arg any) {
		defer close(done)
		panic("boom")
	}, nil))
	<-done

	p.Destroy(true)
	ran, failed := p.Stats()
	require.EqualValues(t, 0, ran)
	require.EqualValues(t, 1, failed)
}

// Non-graceful Destroy discards whatever is still queued. The one worker is
// kept busy on a blocking first task so Destroy's queue-clear is guaranteed
// to happen before the worker ever gets a chance to dequeue the second one.
func TestImmediateShutdownDropsQueue(t *testing.T) {
	p, err := New(1, nil)
	require.NoError(t, err)

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Add(func(arg any) {
		close(started)
		<-block
	}, nil))
	<-started // worker is now busy with the blocking task

	var ran int
	require.NoError(t, p.Add(func(arg any) { ran++ }, nil))

	destroyDone := make(chan struct{})
	go func() {
		p.Destroy(false)
		close(destroyDone)
	}()

	// Add and Destroy share p.mu, so once Add starts observing the shutdown
	// flag, the queue has already been cleared under that same critical
	// section — only then is it safe to let the blocked worker proceed.
	require.Eventually(t, func() bool {
		return p.Add(func(arg any) {}, nil) != nil
	}, time.Second, time.Millisecond)

	close(block)
	<-destroyDone
	require.Equal(t, 0, ran)
}

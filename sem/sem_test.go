package sem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
	"github.com/MedourMehdi/mintlib-rc/pthread"
)

// Before any pthread.Create call in this binary, Init takes the
// single-threaded (kernel-named-lock) path; this test intentionally runs
// early to pin that down, since pthread.IsMultithreaded() is a one-way
// process-wide flag (see internal/kernel/mode.go).
func TestInitWaitPostSingleThreaded(t *testing.T) {
	s, err := Init(0)
	require.NoError(t, err)
	defer s.Destroy()

	require.ErrorIs(t, s.TryWait(), errno.EAGAIN)

	require.NoError(t, s.Post())
	v, err := s.GetValue()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	require.NoError(t, s.Wait())
	require.ErrorIs(t, s.TryWait(), errno.EAGAIN)
}

func TestTimedWaitExpires(t *testing.T) {
	s, err := Init(0)
	require.NoError(t, err)
	defer s.Destroy()

	err = s.TimedWait(ClockRealtime, time.Now().Add(20*time.Millisecond))
	require.ErrorIs(t, err, errno.ETIMEDOUT)
}

func TestInitRejectsOversizedValue(t *testing.T) {
	_, err := Init(ValueMax + 1)
	require.ErrorIs(t, err, errno.EINVAL)
}

func TestPostOverflow(t *testing.T) {
	s, err := Init(ValueMax)
	require.NoError(t, err)
	defer s.Destroy()
	require.ErrorIs(t, s.Post(), errno.EOVERFLOW)
}

// Named semaphore two-handle scenario: two independent Open calls for the
// same name observe the same underlying count, and Close/Unlink tear it
// down only once every handle has gone away.
func TestNamedSemaphoreTwoHandles(t *testing.T) {
	name := "/two"

	a, err := Open(name, OCreate, 1)
	require.NoError(t, err)

	b, err := Open(name, OCreate, 5) // initial value ignored: already exists
	require.NoError(t, err)

	require.NoError(t, a.Wait()) // consumes the one permit
	require.ErrorIs(t, b.TryWait(), errno.EAGAIN)

	require.NoError(t, b.Post())
	require.NoError(t, a.Wait())

	require.NoError(t, Unlink(name))

	// Both handles stay usable until closed, per sem_unlink's contract.
	require.NoError(t, b.Post())
	require.NoError(t, a.Wait())

	require.NoError(t, a.Close())
	require.NoError(t, b.Close())

	// Now that every handle is gone, re-opening the name is a fresh
	// semaphore, not the deferred-destroy one.
	c, err := Open(name, OCreate, 3)
	require.NoError(t, err)
	v, err := c.GetValue()
	require.NoError(t, err)
	require.EqualValues(t, 3, v)
	require.NoError(t, Unlink(name))
	require.NoError(t, c.Close())
}

func TestOpenExclRejectsExisting(t *testing.T) {
	name := "/exc"
	a, err := Open(name, OCreate, 0)
	require.NoError(t, err)
	defer func() {
		_ = Unlink(name)
		_ = a.Close()
	}()

	_, err = Open(name, OCreate|OExcl, 0)
	require.ErrorIs(t, err, errno.EEXIST)
}

func TestOpenWithoutCreateRequiresExisting(t *testing.T) {
	_, err := Open("/nope", 0, 0)
	require.ErrorIs(t, err, errno.ENOENT)
}

func TestOpenRejectsLeadingUnderscore(t *testing.T) {
	_, err := Open("/_x", OCreate, 0)
	require.ErrorIs(t, err, errno.ENOENT)
}

func TestOpenRejectsNameLongerThanSemNameMax(t *testing.T) {
	_, err := Open("/toolong", OCreate, 0) // 7 chars after "/", over NameMax (4)
	require.ErrorIs(t, err, errno.ENAMETOOLONG)
}

func TestInitMultithreadedPath(t *testing.T) {
	// Force the multithreaded branch by actually creating a thread first.
	id, err := pthread.Create(nil, func(arg any) any { return nil }, nil)
	require.NoError(t, err)
	_, _ = pthread.Join(id)
	require.True(t, pthread.IsMultithreaded())

	s, err := Init(2)
	require.NoError(t, err)
	defer s.Destroy()

	require.NoError(t, s.Wait())
	v, err := s.GetValue()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}

package pthread

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

func TestCondZeroValueRejectedByMagicCheck(t *testing.T) {
	var c Cond
	var m Mutex
	require.NoError(t, m.Init(nil))
	require.NoError(t, m.Lock())

	require.ErrorIs(t, c.Wait(&m), errno.EINVAL)
	require.ErrorIs(t, c.Signal(), errno.EINVAL)
	require.ErrorIs(t, c.Broadcast(), errno.EINVAL)
	require.ErrorIs(t, c.Destroy(), errno.EINVAL)
}

func TestCondUseAfterDestroyRejected(t *testing.T) {
	var c Cond
	require.NoError(t, c.Init())
	require.NoError(t, c.Destroy())

	var m Mutex
	require.NoError(t, m.Init(nil))
	require.NoError(t, m.Lock())
	require.ErrorIs(t, c.Wait(&m), errno.EINVAL)
}

package sysc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchYieldIsANoopThatReturnsZero(t *testing.T) {
	require.EqualValues(t, 0, Dispatch(CategoryCtrl, OpCtrlYield, 0, 0, 0, 0))
}

func TestDispatchIsInitialOnBootstrapThread(t *testing.T) {
	require.EqualValues(t, 1, Dispatch(CategoryCtrl, OpCtrlIsInitial, 0, 0, 0, 0))
}

func TestThreadSelfIsStableWithinACall(t *testing.T) {
	a := ThreadSelf()
	b := ThreadSelf()
	require.Equal(t, a, b)
	require.True(t, ThreadEqual(a, b))
}

func TestThreadSetGetNameRoundTrips(t *testing.T) {
	id := ThreadSelf()
	require.EqualValues(t, 0, int(ThreadSetName(id, "sysc-test-thrd")))
	name, eno := ThreadGetName(id)
	require.EqualValues(t, 0, int(eno))
	require.Equal(t, "sysc-test-thrd", name)
}

func TestThreadListLiveIncludesSelf(t *testing.T) {
	self := ThreadSelf()
	ids := ThreadListLive()
	require.Contains(t, ids, self)
}

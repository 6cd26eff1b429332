package errno

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaturateMillis(t *testing.T) {
	for _, tc := range []struct {
		name string
		d    time.Duration
		want int32
	}{
		{"negative", -time.Second, 0},
		{"zero", 0, 0},
		{"ordinary", 250 * time.Millisecond, 250},
		{"overflow", time.Duration(math.MaxInt64), math.MaxInt32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SaturateMillis(tc.d))
		})
	}
}

func TestDeadlineMillis(t *testing.T) {
	now := time.Unix(1000, 0)
	require.Equal(t, int32(0), DeadlineMillis(now, now.Add(-time.Second)))
	require.Equal(t, int32(500), DeadlineMillis(now, now.Add(500*time.Millisecond)))
}

func TestLastErrno(t *testing.T) {
	const thread = int64(42)
	require.Equal(t, OK, Last(thread))

	SetLast(thread, EAGAIN)
	require.Equal(t, EAGAIN, Last(thread))

	ClearLast(thread)
	require.Equal(t, OK, Last(thread))
}

func TestFromNegAndNeg(t *testing.T) {
	v, e := FromNeg(Neg(EBUSY))
	require.Equal(t, int64(0), v)
	require.Equal(t, EBUSY, e)

	v, e = FromNeg(7)
	require.Equal(t, int64(7), v)
	require.Equal(t, OK, e)
}

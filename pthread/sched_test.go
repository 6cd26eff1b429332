package pthread

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MedourMehdi/mintlib-rc/internal/errno"
)

func TestTimesliceRoundTrips(t *testing.T) {
	original := GetTimeslice()
	t.Cleanup(func() { _ = SetTimeslice(original) })

	require.NoError(t, SetTimeslice(25))
	require.EqualValues(t, 25, GetTimeslice())
}

func TestSetTimesliceRejectsNonPositive(t *testing.T) {
	require.ErrorIs(t, SetTimeslice(0), errno.EINVAL)
	require.ErrorIs(t, SetTimeslice(-1), errno.EINVAL)
}

func TestGetRRIntervalReflectsTimeslice(t *testing.T) {
	original := GetTimeslice()
	t.Cleanup(func() { _ = SetTimeslice(original) })

	require.NoError(t, SetTimeslice(40))
	v, err := GetRRInterval(Self())
	require.NoError(t, err)
	require.EqualValues(t, 40, v)
}

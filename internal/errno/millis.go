package errno

import (
	"math"
	"time"
)

// SaturateMillis converts d into a millisecond count suitable for passing to
// a blocking kernel wait op, saturating at the 32-bit maximum instead of
// overflowing. A non-positive d (deadline already in the past, or zero
// remaining) collapses to 0, which callers treat as "expired immediately"
// rather than "wait forever".
func SaturateMillis(d time.Duration) int32 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}

// DeadlineMillis is SaturateMillis applied to the remaining time until
// deadline, evaluated against now. Used by cv/sem/sig timedwait variants
// which all take an absolute deadline.
func DeadlineMillis(now, deadline time.Time) int32 {
	return SaturateMillis(deadline.Sub(now))
}

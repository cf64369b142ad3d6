package progression

import "time"

// StreakDelta reports 1 when the last qualifying completion was today or
// yesterday in now's location, and 0 otherwise. A zero last time yields 0.
// It does not own the persisted streak counter.
func StreakDelta(last, now time.Time) int {
	if last.IsZero() {
		return 0
	}
	if DaysBetween(last, now) <= 1 {
		return 1
	}
	return 0
}

// DaysBetween counts calendar days from a to b, both taken in b's location.
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	return !a.IsZero() && DaysBetween(a, b) == 0
}

package openhours

import (
	"strconv"
	"time"
)

// Operating times are fractional-hour strings ("9.5" = 09:30). The pair
// "0"/"24" is the 24-hour sentinel, and a missing open or close time means
// the facility is treated as always operating.

const minutesPerDay = 24 * 60

// ParseClock converts a fractional-hour string to minutes since midnight
func ParseClock(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if f < 0 || f > 24 {
		return 0, false
	}
	return int(f*60 + 0.5), true
}

// MinutesOfDay returns the minutes since midnight for a wall-clock time
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// AlwaysOpen reports whether the open/close pair means round-the-clock
// operation: either bound missing, or the explicit "0"/"24" sentinel.
func AlwaysOpen(open, close string) bool {
	if open == "" || close == "" {
		return true
	}
	return open == "0" && close == "24"
}

// IsOpenAt reports whether a facility with the given operating bounds is
// open at the given wall-clock time. Unparseable bounds count as open;
// listings favor visibility over correctness.
func IsOpenAt(open, close string, at time.Time) bool {
	if AlwaysOpen(open, close) {
		return true
	}
	openMin, ok := ParseClock(open)
	if !ok {
		return true
	}
	closeMin, ok := ParseClock(close)
	if !ok {
		return true
	}
	now := MinutesOfDay(at)
	if closeMin < openMin {
		// interval crosses midnight
		return now >= openMin || now <= closeMin
	}
	return now >= openMin && now <= closeMin
}

// Overlaps reports whether the operating interval intersects the window
// [startMin, endMin), both expressed as minutes since midnight. A window
// whose end precedes its start crosses midnight; equal bounds make an empty
// window. Always-open facilities match every non-degenerate window.
func Overlaps(open, close string, startMin, endMin int) bool {
	if startMin == endMin {
		return false
	}
	if AlwaysOpen(open, close) {
		return true
	}
	openMin, ok := ParseClock(open)
	if !ok {
		return true
	}
	closeMin, ok := ParseClock(close)
	if !ok {
		return true
	}

	// Split midnight-crossing ranges into same-day segments, then test
	// closed facility segments against half-open window segments.
	var facility [][2]int
	if closeMin < openMin {
		facility = [][2]int{{openMin, minutesPerDay}, {0, closeMin}}
	} else {
		facility = [][2]int{{openMin, closeMin}}
	}
	var window [][2]int
	if endMin < startMin {
		window = [][2]int{{startMin, minutesPerDay}, {0, endMin}}
	} else {
		window = [][2]int{{startMin, endMin}}
	}

	for _, f := range facility {
		for _, w := range window {
			if f[0] < w[1] && w[0] <= f[1] {
				return true
			}
		}
	}
	return false
}

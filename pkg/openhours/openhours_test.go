package openhours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input    string
		expected int
		ok       bool
		name     string
	}{
		{"9.5", 570, true, "Half hour"},
		{"0", 0, true, "Midnight"},
		{"24", 1440, true, "End of day"},
		{"13.25", 795, true, "Quarter hour"},
		{"", 0, false, "Empty"},
		{"abc", 0, false, "Not a number"},
		{"-1", 0, false, "Negative"},
		{"25", 0, false, "Past end of day"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseClock(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestIsOpenAt_TwentyFourHourSentinel(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.True(t, IsOpenAt("0", "24", clock(hour, 0)), "hour %d", hour)
	}
}

func TestIsOpenAt_MissingBoundsAlwaysOpen(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.True(t, IsOpenAt("", "", clock(hour, 30)), "hour %d", hour)
		assert.True(t, IsOpenAt("9", "", clock(hour, 30)), "hour %d open only", hour)
		assert.True(t, IsOpenAt("", "22", clock(hour, 30)), "hour %d close only", hour)
	}
}

func TestIsOpenAt_CrossesMidnight(t *testing.T) {
	cases := []struct {
		at       time.Time
		expected bool
		name     string
	}{
		{clock(23, 0), true, "Before midnight"},
		{clock(1, 0), true, "After midnight"},
		{clock(10, 0), false, "Mid-morning"},
		{clock(21, 0), false, "Just before opening"},
		{clock(21, 30), true, "Exactly at open"},
		{clock(2, 0), true, "Exactly at close"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsOpenAt("21.5", "2", tc.at))
		})
	}
}

func TestIsOpenAt_SameDay(t *testing.T) {
	assert.True(t, IsOpenAt("9", "17", clock(12, 0)))
	assert.False(t, IsOpenAt("9", "17", clock(8, 59)))
	assert.False(t, IsOpenAt("9", "17", clock(17, 1)))
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		open, close        string
		startMin, endMin   int
		expected           bool
		name               string
	}{
		{"9", "17", 600, 720, true, "Window inside hours"},
		{"9", "17", 1080, 1200, false, "Window after close"},
		{"9", "17", 480, 545, true, "Window straddles open"},
		{"22", "2", 1380, 1440, true, "Late window hits midnight-crossing hours"},
		{"22", "2", 600, 720, false, "Day window misses midnight-crossing hours"},
		{"22", "2", 1410, 60, true, "Both cross midnight"},
		{"0", "24", 600, 660, true, "Always open matches"},
		{"", "", 600, 660, true, "Missing bounds match"},
		{"9", "17", 600, 600, false, "Empty window"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.open, tc.close, tc.startMin, tc.endMin))
		})
	}
}

package core

import "testing"

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in  string
		out int
	}{
		{"1 h 30 min", 90},
		{"45 min", 45},
		{"20", 20},
		{"garbage", 0},
		{"2 hours", 120},
		{"1 hour 5 minutes", 65},
		{"90m", 90},
		{"1h30m", 90},
		{"  15 min  ", 15},
		{"3 hr", 180},
		{"", 0},
		{"h min", 0},
		{"-10", 0},
	}
	for _, tc := range cases {
		if got := ParseDurationMinutes(tc.in); got != tc.out {
			t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in  string
		out int
		ok  bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:30", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if got != tc.out || ok != tc.ok {
			t.Errorf("ParseClock(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.out, tc.ok)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in  int
		out string
	}{
		{0, "00:00"},
		{570, "09:30"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1500, "01:00"}, // past midnight wraps, date is not advanced
		{-30, "23:30"},
		{2 * 1440, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.in); got != tc.out {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

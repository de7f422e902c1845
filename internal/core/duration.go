// Package core implements the deterministic itinerary engines: timeline
// recalculation for a day's schedule and the expense ledger with
// host-relative settlement. Everything in this package is a pure
// function over the Trip/Day/Activity value types; malformed input
// degrades to documented defaults and never produces an error.
package core

import (
	"fmt"
	"regexp"
	"strconv"
)

// MinutesPerDay is the wraparound modulus for clock arithmetic.
const MinutesPerDay = 24 * 60

var (
	hourPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|hrs?|h)`)
	minutePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?|m)`)
	barePattern   = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// ParseDurationMinutes extracts a duration in minutes from free text
// such as "1 h 30 min", "45 min" or "90". A bare integer is read as
// minutes; anything unparseable contributes 0. Never fails.
func ParseDurationMinutes(s string) int {
	total := 0
	matched := false
	if m := hourPattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += n * 60
			matched = true
		}
	}
	if m := minutePattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += n
			matched = true
		}
	}
	if !matched {
		if m := barePattern.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				total = n
			}
		}
	}
	return total
}

// ParseClock converts a zero-padded "HH:MM" string to minutes since
// midnight. The second return is false when s does not follow the
// pattern; callers treat that as minute zero.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock renders minutes since midnight as "HH:MM". Values outside
// [0, 1440) are reduced modulo one day, so a schedule may roll past
// midnight without losing its clock face. Which calendar day an
// overflowed activity lands on is deliberately not tracked; the
// schedule is a single-day view.
func FormatClock(minutes int) string {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

package core

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Money is a monetary amount in the trip's currency, held as cents to
// keep ledger arithmetic exact.
type Money struct {
	Cents int64
}

var amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseAmount extracts a monetary amount from a bare number or a
// decorated string such as "NT$1,200.50". The first integer-or-decimal
// substring wins and thousands commas are stripped. No match yields
// zero. Never fails.
func ParseAmount(s string) Money {
	match := amountPattern.FindString(s)
	if match == "" {
		return Money{}
	}
	match = strings.ReplaceAll(match, ",", "")
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return Money{}
	}
	return FromFloat(v)
}

// FromFloat converts currency units to Money with half-up rounding.
func FromFloat(units float64) Money {
	return Money{Cents: int64(math.Round(units * 100))}
}

// Units returns the amount in currency units for display. Use cents for
// calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Positive reports whether the amount has financial impact. Absent and
// zero costs are equivalent.
func (m Money) Positive() bool {
	return m.Cents > 0
}

// MarshalJSON emits the amount in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Units())
}

// UnmarshalJSON accepts either a JSON number of currency units or a
// decorated string; both pass through the amount parser semantics, so a
// malformed value degrades to zero rather than failing the enclosing
// document.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = FromFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = ParseAmount(s)
		return nil
	}
	*m = Money{}
	return nil
}

package core

import "math"

type (
	// LedgerSummary aggregates a trip's spend. Categories with zero
	// spend are omitted from ByCategory.
	LedgerSummary struct {
		Total      Money              `json:"total"`
		ByCategory map[Category]Money `json:"by_category"`
	}

	// Balances maps member id to the unrounded cents that member owes
	// the settlement reference (positive) or is owed by it (negative).
	// Accumulation stays in full precision; rounding happens only at
	// presentation so many small item splits cannot compound error.
	Balances map[string]float64
)

// Rounded converts accumulated balances to whole-cent Money for
// display, half-up away from zero.
func (b Balances) Rounded() map[string]Money {
	out := make(map[string]Money, len(b))
	for id, cents := range b {
		out[id] = Money{Cents: int64(math.Round(cents))}
	}
	return out
}

// Aggregate sums the strictly positive costs of the given activities
// into a total and a per-category breakdown.
func Aggregate(activities []Activity) LedgerSummary {
	sum := LedgerSummary{ByCategory: make(map[Category]Money)}
	for _, a := range activities {
		if !a.Cost.Positive() {
			continue
		}
		sum.Total.Cents += a.Cost.Cents
		cat := sum.ByCategory[a.Category]
		cat.Cents += a.Cost.Cents
		sum.ByCategory[a.Category] = cat
	}
	return sum
}

// Settle computes the pairwise net balance between every member and the
// settlement reference (normally the trip host). For each activity with
// a positive cost the payer fronts the money and the splitters each owe
// an equal share of what they were assigned; only shares where one side
// is the reference member are material, so debts between two
// non-reference members are not tracked.
//
// An empty payer defaults to the reference member. Itemized activities
// split per item; an item (or activity) with no assignees splits among
// all trip members. Unknown member ids and empty splitter sets
// contribute nothing, never an error and never a division by zero.
func Settle(activities []Activity, members []Member, referenceID string) Balances {
	known := make(map[string]bool, len(members))
	all := make([]string, 0, len(members))
	for _, m := range members {
		known[m.ID] = true
		all = append(all, m.ID)
	}

	balances := make(Balances)
	for _, a := range activities {
		if !a.Cost.Positive() {
			continue
		}
		payer := a.Payer
		if payer == "" {
			payer = referenceID
		}
		if !known[payer] {
			continue
		}

		if len(a.Items) > 0 {
			for _, it := range a.Items {
				splitters := resolveSplitters(it.AssignedTo, all, known)
				applyShare(balances, it.Amount.Cents, payer, splitters, referenceID)
			}
			continue
		}
		splitters := resolveSplitters(a.SplitWith, all, known)
		applyShare(balances, a.Cost.Cents, payer, splitters, referenceID)
	}
	return balances
}

// resolveSplitters filters assignees down to known members, expanding
// an empty assignment to the whole trip.
func resolveSplitters(assigned, all []string, known map[string]bool) []string {
	if len(assigned) == 0 {
		return all
	}
	out := assigned[:0:0]
	for _, id := range assigned {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}

// applyShare distributes cents equally across splitters and records the
// reference-relative movements.
func applyShare(balances Balances, cents int64, payer string, splitters []string, referenceID string) {
	if len(splitters) == 0 {
		return
	}
	share := float64(cents) / float64(len(splitters))
	for _, s := range splitters {
		if s == payer {
			continue
		}
		switch {
		case payer == referenceID:
			balances[s] += share
		case s == referenceID:
			balances[payer] -= share
		}
	}
}

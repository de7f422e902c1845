package core

import (
	"math"
	"testing"
)

var tripMembers = []Member{
	{ID: "host", Name: "Me", IsHost: true},
	{ID: "a", Name: "Aki"},
	{ID: "b", Name: "Ben"},
}

func TestAggregate(t *testing.T) {
	sum := Aggregate([]Activity{
		{Category: CategoryFood, Cost: Money{Cents: 12000}},
		{Category: CategoryFood, Cost: Money{Cents: 8000}},
		{Category: CategoryTransport, Cost: Money{Cents: 3000}},
		{Category: CategorySightseeing},                         // zero cost, no impact
		{Category: CategoryHotel, Cost: Money{Cents: -500}},     // negative, no impact
		{Category: CategoryExpense, Cost: Money{Cents: 100000}}, // standalone expense card
	})

	if sum.Total.Cents != 123000 {
		t.Errorf("total = %d, want 123000", sum.Total.Cents)
	}
	if got := sum.ByCategory[CategoryFood].Cents; got != 20000 {
		t.Errorf("food = %d, want 20000", got)
	}
	if got := sum.ByCategory[CategoryTransport].Cents; got != 3000 {
		t.Errorf("transport = %d, want 3000", got)
	}
	if _, ok := sum.ByCategory[CategorySightseeing]; ok {
		t.Error("zero-spend category should be omitted")
	}
	if _, ok := sum.ByCategory[CategoryHotel]; ok {
		t.Error("negative-cost category should be omitted")
	}
}

func TestSettleFlatSplit(t *testing.T) {
	// cost=300, payer=host, split with everyone: A and B owe 100 each.
	got := Settle([]Activity{
		{Cost: Money{Cents: 30000}, Payer: "host", SplitWith: []string{"host", "a", "b"}},
	}, tripMembers, "host")

	want := Balances{"a": 10000, "b": 10000}
	assertBalances(t, got, want)
}

func TestSettleItemizedSplit(t *testing.T) {
	// items: 200 assigned to A, 100 split A+B, payer host.
	// A owes 200 + 50 = 250, B owes 50.
	got := Settle([]Activity{{
		Cost:  Money{Cents: 30000},
		Payer: "host",
		Items: []CostItem{
			{Name: "dinner", Amount: Money{Cents: 20000}, AssignedTo: []string{"a"}},
			{Name: "drinks", Amount: Money{Cents: 10000}, AssignedTo: []string{"a", "b"}},
		},
	}}, tripMembers, "host")

	assertBalances(t, got, Balances{"a": 25000, "b": 5000})
}

func TestSettleReferenceOwesPayer(t *testing.T) {
	// A paid 90 split across all three: the host owes A 30. B's share
	// of a non-reference debt is not tracked.
	got := Settle([]Activity{
		{Cost: Money{Cents: 9000}, Payer: "a"},
	}, tripMembers, "host")

	assertBalances(t, got, Balances{"a": -3000})
}

func TestSettleEmptyAssignmentMeansEveryone(t *testing.T) {
	// No SplitWith and no items: the whole cost splits across all
	// members, identical to how Aggregate treats the activity as one sum.
	got := Settle([]Activity{
		{Cost: Money{Cents: 9000}, Payer: "host"},
	}, tripMembers, "host")

	assertBalances(t, got, Balances{"a": 3000, "b": 3000})
}

func TestSettleDefaultsPayerToReference(t *testing.T) {
	got := Settle([]Activity{
		{Cost: Money{Cents: 6000}, SplitWith: []string{"a", "b"}},
	}, tripMembers, "host")

	assertBalances(t, got, Balances{"a": 3000, "b": 3000})
}

func TestSettleUnroundedShares(t *testing.T) {
	// 100 split three ways accumulates thirds without rounding; the
	// rounded view settles to whole cents.
	got := Settle([]Activity{
		{Cost: Money{Cents: 10000}, Payer: "host"},
	}, tripMembers, "host")

	third := 10000.0 / 3.0
	if math.Abs(got["a"]-third) > 1e-9 {
		t.Errorf("a = %v, want %v", got["a"], third)
	}
	rounded := got.Rounded()
	if rounded["a"].Cents != 3333 {
		t.Errorf("rounded a = %d, want 3333", rounded["a"].Cents)
	}
}

func TestSettleDefensiveDefaults(t *testing.T) {
	cases := []struct {
		name       string
		activities []Activity
		members    []Member
	}{
		{
			name:       "zero cost contributes nothing",
			activities: []Activity{{Payer: "host", SplitWith: []string{"a"}}},
			members:    tripMembers,
		},
		{
			name:       "unknown payer is a no-op",
			activities: []Activity{{Cost: Money{Cents: 5000}, Payer: "ghost", SplitWith: []string{"a"}}},
			members:    tripMembers,
		},
		{
			name:       "unknown splitters are dropped",
			activities: []Activity{{Cost: Money{Cents: 5000}, Payer: "host", SplitWith: []string{"ghost"}}},
			members:    tripMembers,
		},
		{
			name: "empty assignment with no members divides nothing",
			activities: []Activity{{
				Cost:  Money{Cents: 5000},
				Payer: "host",
				Items: []CostItem{{Amount: Money{Cents: 5000}}},
			}},
			members: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Settle(tc.activities, tc.members, "host")
			if len(got) != 0 {
				t.Errorf("balances = %v, want empty", got)
			}
		})
	}
}

func TestSettleNonReferenceDebtsInvisible(t *testing.T) {
	// A paid for B only: neither side is the reference, so nothing is
	// recorded. Host-relative settlement is a documented scope limit.
	got := Settle([]Activity{
		{Cost: Money{Cents: 7000}, Payer: "a", SplitWith: []string{"b"}},
	}, tripMembers, "host")

	if len(got) != 0 {
		t.Errorf("balances = %v, want empty", got)
	}
}

func assertBalances(t *testing.T, got, want Balances) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("balances = %v, want %v", got, want)
	}
	for id, cents := range want {
		if math.Abs(got[id]-cents) > 1e-9 {
			t.Errorf("balance[%s] = %v, want %v", id, got[id], cents)
		}
	}
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"itinera/internal/core"
)

func testStores(t *testing.T) map[string]TripStore {
	t.Helper()
	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "itinera.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]TripStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleTrip() core.Trip {
	now := time.Now().UTC().Truncate(time.Second)
	return core.Trip{
		ID:       "trip-1",
		Name:     "Tokyo",
		Currency: "JPY",
		Members: []core.Member{
			{ID: "host", Name: "Me", IsHost: true},
			{ID: "a", Name: "Aki"},
		},
		Days: []core.Day{
			{DayNumber: 1, Date: "2026-04-01", Activities: []core.Activity{
				{ID: "fl", Time: "14:00", Category: core.CategoryFlight, Title: "Arrive NRT"},
			}},
			{DayNumber: 2, Date: "2026-04-02"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTripStoreRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateTrip(ctx, sampleTrip()); err != nil {
				t.Fatalf("CreateTrip: %v", err)
			}

			got, err := store.GetTrip(ctx, "trip-1")
			if err != nil {
				t.Fatalf("GetTrip: %v", err)
			}
			if got.Name != "Tokyo" || got.Currency != "JPY" {
				t.Errorf("trip = %+v", got)
			}
			if len(got.Members) != 2 || !got.Members[0].IsHost {
				t.Errorf("members = %+v", got.Members)
			}
			if len(got.Days) != 2 || len(got.Days[0].Activities) != 1 {
				t.Fatalf("days = %+v", got.Days)
			}
			if a := got.Days[0].Activities[0]; a.Category != core.CategoryFlight || a.Time != "14:00" {
				t.Errorf("activity = %+v", a)
			}

			if _, err := store.GetTrip(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Errorf("missing trip: got %v", err)
			}
		})
	}
}

func TestTripStoreSaveDay(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateTrip(ctx, sampleTrip()); err != nil {
				t.Fatalf("CreateTrip: %v", err)
			}

			day := core.Day{DayNumber: 1, Date: "2026-04-01", Activities: []core.Activity{
				{ID: "fl", Time: "14:00", Category: core.CategoryFlight, Title: "Arrive NRT"},
				{ID: "fl-arrival", Time: "14:00", Category: core.CategoryProcess, Title: "Immigration & baggage",
					Transport: &core.TransportDetail{Mode: "walk", Duration: "60 min"}},
				{ID: "din", Time: "15:00", Category: core.CategoryFood, Title: "Dinner",
					Cost: core.Money{Cents: 90000}, Payer: "host",
					SplitWith: []string{"host", "a"},
					Items: []core.CostItem{
						{Name: "set", Amount: core.Money{Cents: 90000}, AssignedTo: []string{"a"}},
					}},
			}}

			v1, err := store.SaveDay(ctx, "trip-1", day)
			if err != nil {
				t.Fatalf("SaveDay: %v", err)
			}
			v2, err := store.SaveDay(ctx, "trip-1", day)
			if err != nil {
				t.Fatalf("SaveDay again: %v", err)
			}
			if v2 <= v1 {
				t.Errorf("version did not advance: %d then %d", v1, v2)
			}

			got, err := store.GetTrip(ctx, "trip-1")
			if err != nil {
				t.Fatalf("GetTrip: %v", err)
			}
			acts := got.Days[0].Activities
			if len(acts) != 3 {
				t.Fatalf("activities = %+v", acts)
			}
			if acts[1].Transport == nil || acts[1].Transport.Duration != "60 min" {
				t.Errorf("transport = %+v", acts[1].Transport)
			}
			if len(acts[2].Items) != 1 || acts[2].Items[0].AssignedTo[0] != "a" {
				t.Errorf("items = %+v", acts[2].Items)
			}
			if acts[2].Cost.Cents != 90000 {
				t.Errorf("cost = %d", acts[2].Cost.Cents)
			}

			if _, err := store.SaveDay(ctx, "nope", day); !errors.Is(err, ErrNotFound) {
				t.Errorf("missing trip: got %v", err)
			}
		})
	}
}

func TestTripStoreExportTracking(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateTrip(ctx, sampleTrip()); err != nil {
				t.Fatalf("CreateTrip: %v", err)
			}

			version, err := store.SaveDay(ctx, "trip-1", core.Day{DayNumber: 1})
			if err != nil {
				t.Fatalf("SaveDay: %v", err)
			}

			pending, err := store.PendingExports(ctx, 10)
			if err != nil {
				t.Fatalf("PendingExports: %v", err)
			}
			if len(pending) != 1 || pending[0].TripID != "trip-1" || pending[0].Version != version {
				t.Fatalf("pending = %+v, want trip-1@%d", pending, version)
			}

			if err := store.MarkExported(ctx, "trip-1", version); err != nil {
				t.Fatalf("MarkExported: %v", err)
			}
			pending, err = store.PendingExports(ctx, 10)
			if err != nil {
				t.Fatalf("PendingExports: %v", err)
			}
			if len(pending) != 0 {
				t.Errorf("pending after export = %+v", pending)
			}
		})
	}
}

func TestTripStoreDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.CreateTrip(ctx, sampleTrip()); err != nil {
				t.Fatalf("CreateTrip: %v", err)
			}
			if err := store.DeleteTrip(ctx, "trip-1"); err != nil {
				t.Fatalf("DeleteTrip: %v", err)
			}
			if _, err := store.GetTrip(ctx, "trip-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("deleted trip still readable: %v", err)
			}
			if err := store.DeleteTrip(ctx, "trip-1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("double delete: got %v", err)
			}
		})
	}
}

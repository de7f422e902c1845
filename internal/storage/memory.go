package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"itinera/internal/core"
)

// MemoryStore is an in-memory TripStore for tests and throwaway runs.
// Values are deep-copied on the way in and out so callers can never
// mutate stored state behind the store's back.
type MemoryStore struct {
	mu       sync.RWMutex
	trips    map[string]core.Trip
	versions map[string]int64
	exported map[string]int64
}

var _ TripStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[string]core.Trip),
		versions: make(map[string]int64),
		exported: make(map[string]int64),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateTrip(_ context.Context, trip core.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = cloneTrip(trip)
	s.versions[trip.ID] = 1
	return nil
}

func (s *MemoryStore) GetTrip(_ context.Context, id string) (core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trip, ok := s.trips[id]
	if !ok {
		return core.Trip{}, ErrNotFound
	}
	return cloneTrip(trip), nil
}

func (s *MemoryStore) ListTrips(_ context.Context) ([]core.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		c := cloneTrip(t)
		c.Days = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) DeleteTrip(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return ErrNotFound
	}
	delete(s.trips, id)
	delete(s.versions, id)
	delete(s.exported, id)
	return nil
}

func (s *MemoryStore) SaveDay(_ context.Context, tripID string, day core.Day) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return 0, ErrNotFound
	}

	day = cloneDay(day)
	replaced := false
	for i := range trip.Days {
		if trip.Days[i].DayNumber == day.DayNumber {
			trip.Days[i] = day
			replaced = true
			break
		}
	}
	if !replaced {
		trip.Days = append(trip.Days, day)
		sort.Slice(trip.Days, func(i, j int) bool {
			return trip.Days[i].DayNumber < trip.Days[j].DayNumber
		})
	}
	trip.UpdatedAt = time.Now().UTC()
	s.trips[tripID] = trip
	s.versions[tripID]++
	return s.versions[tripID], nil
}

func (s *MemoryStore) PendingExports(_ context.Context, limit int) ([]PendingExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []PendingExport
	for id, v := range s.versions {
		if v > s.exported[id] {
			pending = append(pending, PendingExport{TripID: id, Version: v})
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].TripID < pending[j].TripID })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *MemoryStore) MarkExported(_ context.Context, tripID string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exported[tripID] < version {
		s.exported[tripID] = version
	}
	return nil
}

func cloneTrip(t core.Trip) core.Trip {
	out := t
	out.Members = append([]core.Member(nil), t.Members...)
	out.Days = make([]core.Day, len(t.Days))
	for i, d := range t.Days {
		out.Days[i] = cloneDay(d)
	}
	return out
}

func cloneDay(d core.Day) core.Day {
	out := d
	out.Activities = make([]core.Activity, len(d.Activities))
	for i, a := range d.Activities {
		out.Activities[i] = cloneActivity(a)
	}
	return out
}

func cloneActivity(a core.Activity) core.Activity {
	out := a
	out.SplitWith = append([]string(nil), a.SplitWith...)
	if len(a.Items) > 0 {
		out.Items = make([]core.CostItem, len(a.Items))
		for i, it := range a.Items {
			out.Items[i] = it
			out.Items[i].AssignedTo = append([]string(nil), it.AssignedTo...)
		}
	}
	if a.Transport != nil {
		t := *a.Transport
		out.Transport = &t
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"time"

	"itinera/internal/cache"
	"itinera/internal/core"
	"itinera/internal/storage"
)

// LedgerView is a trip's computed cost summary: category totals plus
// host-relative member balances.
type LedgerView struct {
	TripID     string
	Currency   string
	Total      core.Money
	ByCategory map[core.Category]core.Money
	Balances   map[string]core.Money
}

// LedgerService computes cost summaries on demand. Results are cached
// per trip and invalidated by TripService after every mutation.
type LedgerService struct {
	store storage.TripStore
	cache *cache.LRUCache[LedgerView]
}

func NewLedgerService(store storage.TripStore) *LedgerService {
	return &LedgerService{
		store: store,
		cache: cache.NewLRUCache[LedgerView](256, 5*time.Minute),
	}
}

// Summary aggregates and settles the trip's activities. Balances are
// relative to the trip host and rounded only here, at the presentation
// boundary.
func (s *LedgerService) Summary(ctx context.Context, tripID string) (LedgerView, error) {
	if view, ok := s.cache.Get(tripID); ok {
		return view, nil
	}

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return LedgerView{}, fmt.Errorf("get trip: %w", err)
	}

	var activities []core.Activity
	for _, day := range trip.Days {
		activities = append(activities, day.Activities...)
	}

	summary := core.Aggregate(activities)
	balances := core.Balances{}
	if host, err := trip.Host(); err == nil {
		balances = core.Settle(activities, trip.Members, host.ID)
	}

	view := LedgerView{
		TripID:     trip.ID,
		Currency:   trip.Currency,
		Total:      summary.Total,
		ByCategory: summary.ByCategory,
		Balances:   balances.Rounded(),
	}
	s.cache.Set(tripID, view)
	return view, nil
}

// Invalidate drops the cached summary for a trip.
func (s *LedgerService) Invalidate(tripID string) {
	s.cache.Delete(tripID)
}

// CleanExpired implements cache.Cleaner for periodic cleanup.
func (s *LedgerService) CleanExpired() int {
	return s.cache.CleanExpired()
}

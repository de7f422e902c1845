// Package services is the trip orchestrator: it owns the
// mutate-recalculate-persist-publish pipeline around the pure engines
// in internal/core.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"itinera/internal/core"
	"itinera/internal/log"
	"itinera/internal/storage"
)

var (
	ErrEmptyTripName = errors.New("trip name must not be empty")
	ErrNoMembers     = errors.New("trip needs at least one member")
)

// EventPublisher publishes ledger export events after mutations.
// *amqp.Client satisfies it; a nil publisher disables exports.
type EventPublisher interface {
	PublishLedgerExport(ctx context.Context, tripID string, version int64) error
}

// TripService orchestrates trip mutations across storage and AMQP.
// Every activity mutation runs the day through the timeline engine
// before persisting, so stored days always carry recalculated times.
type TripService struct {
	store  storage.TripStore
	events EventPublisher
	ledger *LedgerService
	logs   *log.StructuredLogger
}

func NewTripService(store storage.TripStore, events EventPublisher, ledger *LedgerService) *TripService {
	return &TripService{
		store:  store,
		events: events,
		ledger: ledger,
		logs: log.NewStructuredLogger(log.New(log.Config{
			Level:     slog.LevelInfo,
			Component: log.ComponentTrip,
			Handler:   slog.Default().Handler(),
		})),
	}
}

// CreateTrip creates a trip with generated ids. The first member is the
// host.
func (s *TripService) CreateTrip(ctx context.Context, name, currency string, memberNames []string) (core.Trip, error) {
	if name == "" {
		return core.Trip{}, ErrEmptyTripName
	}
	if len(memberNames) == 0 {
		return core.Trip{}, ErrNoMembers
	}
	if currency == "" {
		currency = "EUR"
	}

	members := make([]core.Member, 0, len(memberNames))
	for i, memberName := range memberNames {
		m := core.Member{
			ID:     uuid.NewString(),
			Name:   memberName,
			IsHost: i == 0,
		}
		if err := m.Validate(); err != nil {
			return core.Trip{}, fmt.Errorf("member %d: %w", i, err)
		}
		members = append(members, m)
	}

	now := time.Now().UTC()
	trip := core.Trip{
		ID:        uuid.NewString(),
		Name:      name,
		Currency:  currency,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return core.Trip{}, fmt.Errorf("create trip: %w", err)
	}

	slog.InfoContext(ctx, "Created trip",
		"trip_id", trip.ID,
		"members", len(trip.Members))

	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (core.Trip, error) {
	return s.store.GetTrip(ctx, tripID)
}

func (s *TripService) ListTrips(ctx context.Context) ([]core.Trip, error) {
	return s.store.ListTrips(ctx)
}

func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		return err
	}
	s.invalidate(tripID)
	return nil
}

// GetDay returns a day's activities with their recalculated times.
// Days are recalculated at write time, so reads never recompute.
func (s *TripService) GetDay(ctx context.Context, tripID string, dayNumber int) (core.Day, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return core.Day{}, err
	}
	day := trip.DayByNumber(dayNumber)
	if day == nil {
		return core.Day{}, fmt.Errorf("day %d: %w", dayNumber, storage.ErrNotFound)
	}
	return *day, nil
}

// AddDay appends an empty day to a trip.
func (s *TripService) AddDay(ctx context.Context, tripID string, dayNumber int, date string) (core.Day, error) {
	if dayNumber < 1 {
		return core.Day{}, core.ErrInvalidDayNumber
	}
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return core.Day{}, err
	}
	if trip.DayByNumber(dayNumber) != nil {
		return core.Day{}, fmt.Errorf("day %d already exists: %w", dayNumber, core.ErrInvalidDayNumber)
	}
	day := core.Day{DayNumber: dayNumber, Date: date}
	if _, err := s.store.SaveDay(ctx, tripID, day); err != nil {
		return core.Day{}, fmt.Errorf("save day: %w", err)
	}
	return day, nil
}

// AddActivity validates and appends an activity, then recalculates the
// day. A missing activity id is generated.
func (s *TripService) AddActivity(ctx context.Context, tripID string, dayNumber int, activity core.Activity) (core.Day, error) {
	if err := validateActivity(activity); err != nil {
		return core.Day{}, err
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	return s.mutateDay(ctx, tripID, dayNumber, log.OpCreate, activity.ID, func(day core.Day) (core.Day, error) {
		day.Activities = append(day.Activities, activity)
		return day, nil
	})
}

// UpdateActivity replaces an activity in place, keeping its position.
func (s *TripService) UpdateActivity(ctx context.Context, tripID string, dayNumber int, activity core.Activity) (core.Day, error) {
	if err := validateActivity(activity); err != nil {
		return core.Day{}, err
	}

	return s.mutateDay(ctx, tripID, dayNumber, log.OpUpdate, activity.ID, func(day core.Day) (core.Day, error) {
		_, idx := day.ActivityByID(activity.ID)
		if idx < 0 {
			return core.Day{}, fmt.Errorf("activity %s: %w", activity.ID, storage.ErrNotFound)
		}
		day.Activities[idx] = activity
		return day, nil
	})
}

// MoveActivity reorders an activity within its day. The target index is
// clamped to the list bounds.
func (s *TripService) MoveActivity(ctx context.Context, tripID string, dayNumber int, activityID string, toIndex int) (core.Day, error) {
	return s.mutateDay(ctx, tripID, dayNumber, log.OpMove, activityID, func(day core.Day) (core.Day, error) {
		activity, idx := day.ActivityByID(activityID)
		if idx < 0 {
			return core.Day{}, fmt.Errorf("activity %s: %w", activityID, storage.ErrNotFound)
		}
		if toIndex < 0 {
			toIndex = 0
		}
		if toIndex >= len(day.Activities) {
			toIndex = len(day.Activities) - 1
		}
		acts := append(day.Activities[:idx], day.Activities[idx+1:]...)
		acts = append(acts, core.Activity{})
		copy(acts[toIndex+1:], acts[toIndex:])
		acts[toIndex] = activity
		day.Activities = acts
		return day, nil
	})
}

// DeleteActivity removes an activity from its day.
func (s *TripService) DeleteActivity(ctx context.Context, tripID string, dayNumber int, activityID string) (core.Day, error) {
	return s.mutateDay(ctx, tripID, dayNumber, log.OpDelete, activityID, func(day core.Day) (core.Day, error) {
		_, idx := day.ActivityByID(activityID)
		if idx < 0 {
			return core.Day{}, fmt.Errorf("activity %s: %w", activityID, storage.ErrNotFound)
		}
		day.Activities = append(day.Activities[:idx], day.Activities[idx+1:]...)
		return day, nil
	})
}

// mutateDay loads the day, applies the edit, recalculates the timeline,
// persists, and publishes the new version. The ordering guarantees that
// a published version always refers to a recalculated, persisted day.
func (s *TripService) mutateDay(ctx context.Context, tripID string, dayNumber int, op, activityID string, edit func(core.Day) (core.Day, error)) (core.Day, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return core.Day{}, err
	}
	stored := trip.DayByNumber(dayNumber)
	if stored == nil {
		return core.Day{}, fmt.Errorf("day %d: %w", dayNumber, storage.ErrNotFound)
	}

	edited, err := edit(*stored)
	if err != nil {
		return core.Day{}, err
	}

	recalced := core.RecalcDay(edited)

	version, err := s.store.SaveDay(ctx, tripID, recalced)
	if err != nil {
		return core.Day{}, fmt.Errorf("save day: %w", err)
	}

	s.invalidate(tripID)
	s.publishExport(ctx, tripID, version)
	s.logs.LogActivityMutation(ctx, op, tripID, dayNumber, activityID, version)

	return recalced, nil
}

func (s *TripService) publishExport(ctx context.Context, tripID string, version int64) {
	if s.events == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping export message",
			"trip_id", tripID)
		return
	}
	if err := s.events.PublishLedgerExport(ctx, tripID, version); err != nil {
		// Mutation is already persisted; the periodic export pass
		// will pick the version up.
		slog.ErrorContext(ctx, "Failed to publish export message",
			"trip_id", tripID,
			"version", version,
			"error", err)
	}
}

func (s *TripService) invalidate(tripID string) {
	if s.ledger != nil {
		s.ledger.Invalidate(tripID)
	}
}

func validateActivity(activity core.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}
	return activity.ValidateItems()
}

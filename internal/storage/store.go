// Package storage persists trips behind the TripStore port. The core
// engines never see this package; they are handed Day and Activity
// values and hand back updated ones.
package storage

import (
	"context"
	"errors"

	"itinera/internal/core"
)

// ErrNotFound is returned when a trip does not exist.
var ErrNotFound = errors.New("trip not found")

// PendingExport identifies a trip whose ledger changed since its last
// settlement export.
type PendingExport struct {
	TripID  string
	Version int64
}

// TripStore is the persistence port the service layer talks to. The
// sqlite repository implements it for real deployments, the memory
// store for tests and throwaway runs.
type TripStore interface {
	CreateTrip(ctx context.Context, trip core.Trip) error
	GetTrip(ctx context.Context, id string) (core.Trip, error)
	ListTrips(ctx context.Context) ([]core.Trip, error)
	DeleteTrip(ctx context.Context, id string) error

	// SaveDay replaces one day's schedule and bumps the trip version.
	SaveDay(ctx context.Context, tripID string, day core.Day) (version int64, err error)

	PendingExports(ctx context.Context, limit int) ([]PendingExport, error)
	MarkExported(ctx context.Context, tripID string, version int64) error

	Close() error
}

// Package worker turns trip versions into settlement snapshots on the
// configured sheet backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"itinera/internal/amqp"
	"itinera/internal/core"
	"itinera/internal/log"
	"itinera/internal/sheets"
	"itinera/internal/storage"
)

// ExportWorker exports trip ledgers from the trip store to a settlement
// sheet. Each export recomputes the ledger from the stored itinerary,
// so a snapshot always reflects the trip version it is tagged with.
type ExportWorker struct {
	store     storage.TripStore
	sheets    sheets.SettlementWriter
	batchSize int
	logs      *log.StructuredLogger
}

func NewExportWorker(store storage.TripStore, writer sheets.SettlementWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &ExportWorker{
		store:     store,
		sheets:    writer,
		batchSize: batchSize,
		logs: log.NewStructuredLogger(log.New(log.Config{
			Level:     slog.LevelInfo,
			Component: log.ComponentWorker,
			Handler:   slog.Default().Handler(),
		})),
	}
}

// HandleExportMessage processes a single ledger export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.LedgerExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"trip_id", msg.TripID,
		"version", msg.Version)

	if err := w.exportTrip(ctx, msg.TripID, msg.Version); err != nil {
		return fmt.Errorf("export trip %s: %w", msg.TripID, err)
	}
	return nil
}

// ProcessPendingExports exports trips whose version is ahead of their
// last exported version. This is a backup mechanism in case AMQP
// messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTrip(ctx, p.TripID, p.Version); err != nil {
			slog.ErrorContext(ctx, "Failed to export trip",
				"trip_id", p.TripID,
				"version", p.Version,
				"error", err)
			continue
		}
	}
	return nil
}

// StartupExportCheck drains the pending-export backlog at worker
// startup, useful to recover from missed messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.store.PendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.exportTrip(ctx, p.TripID, p.Version); err != nil {
			slog.ErrorContext(ctx, "Failed to export trip during startup",
				"trip_id", p.TripID,
				"version", p.Version,
				"error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportTrip(ctx context.Context, tripID string, version int64) error {
	trip, err := w.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Trip deleted after the message was published. Nothing to
			// export and nothing to retry.
			slog.WarnContext(ctx, "Trip vanished before export, skipping",
				"trip_id", tripID,
				"version", version)
			return nil
		}
		return fmt.Errorf("get trip from storage: %w", err)
	}

	var activities []core.Activity
	for _, day := range trip.Days {
		activities = append(activities, day.Activities...)
	}

	summary := core.Aggregate(activities)
	balances := core.Balances{}
	if host, err := trip.Host(); err == nil {
		balances = core.Settle(activities, trip.Members, host.ID)
	} else {
		slog.WarnContext(ctx, "Trip has no host, exporting totals only",
			"trip_id", tripID)
	}

	snapshot := sheets.SettlementSnapshot{
		TripID:     trip.ID,
		TripName:   trip.Name,
		Currency:   trip.Currency,
		Version:    version,
		ExportedAt: time.Now().UTC(),
		Total:      summary.Total,
		ByCategory: summary.ByCategory,
		Balances:   balances,
	}

	ref, err := w.sheets.AppendSettlement(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("append settlement to sheets: %w", err)
	}

	if err := w.store.MarkExported(ctx, tripID, version); err != nil {
		slog.ErrorContext(ctx, "Failed to mark trip as exported",
			"trip_id", tripID,
			"version", version,
			"error", err)
		// The export itself worked; the next pass will retry the mark.
	}

	w.logs.LogSettlementExported(ctx, tripID, version, ref)

	return nil
}

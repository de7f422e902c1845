package log

import (
	"context"
)

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogActivityMutation logs a successful activity mutation on a day
func (sl *StructuredLogger) LogActivityMutation(ctx context.Context, op, tripID string, dayNumber int, activityID string, version int64) {
	fields := NewFields().
		WithActivity(tripID, dayNumber, activityID).
		WithOperation(op).
		WithComponent(ComponentTrip).
		ToSlice()

	fields = append(fields, FieldVersion, version)

	sl.logger.InfoContext(ctx, "Activity mutation applied", fields...)
}

// LogSettlementExported logs a settlement snapshot export
func (sl *StructuredLogger) LogSettlementExported(ctx context.Context, tripID string, version int64, ref string) {
	fields := NewFields().
		WithOperation(OpExport).
		WithComponent(ComponentWorker).
		ToSlice()

	fields = append(fields, FieldTripID, tripID, FieldVersion, version, FieldSheetsRef, ref)

	sl.logger.InfoContext(ctx, "Settlement exported", fields...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}

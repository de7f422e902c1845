package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerExportMessage(t *testing.T) {
	msg := NewLedgerExportMessage("trip-42", 7)

	if msg.TripID != "trip-42" {
		t.Errorf("TripID = %q, want trip-42", msg.TripID)
	}
	if msg.Version != 7 {
		t.Errorf("Version = %d, want 7", msg.Version)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerExportMessageJSON(t *testing.T) {
	timestamp := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerExportMessage{
		TripID:    "trip-42",
		Version:   3,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerExportMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerExportMessageFromJSON() error = %v", err)
	}

	if parsed.TripID != msg.TripID || parsed.Version != msg.Version {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestLedgerExportMessageInvalidJSON(t *testing.T) {
	if _, err := LedgerExportMessageFromJSON([]byte(`{"version": "seven"}`)); err == nil {
		t.Error("LedgerExportMessageFromJSON() should fail with invalid JSON")
	}
}

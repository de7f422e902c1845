package amqp

import (
	"encoding/json"
	"time"
)

// LedgerExportMessage asks the export worker to refresh a trip's
// settlement snapshot. It carries only the trip id and version; the
// worker fetches the full trip from storage.
type LedgerExportMessage struct {
	TripID    string    `json:"trip_id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerExportMessage creates an export message for a trip version.
func NewLedgerExportMessage(tripID string, version int64) *LedgerExportMessage {
	return &LedgerExportMessage{
		TripID:    tripID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerExportMessageFromJSON creates a message from JSON bytes
func LedgerExportMessageFromJSON(data []byte) (*LedgerExportMessage, error) {
	var msg LedgerExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Package memory is an in-process SettlementWriter used in tests and
// when no spreadsheet is configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"itinera/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []sheets.SettlementSnapshot
}

var _ sheets.SettlementWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendSettlement stores the snapshot and returns a synthetic row reference.
func (s *Store) AppendSettlement(_ context.Context, snap sheets.SettlementSnapshot) (string, error) {
	if snap.TripID == "" {
		return "", errors.New("snapshot missing trip id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, snap)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Snapshots returns a copy of everything appended so far.
func (s *Store) Snapshots() []sheets.SettlementSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.SettlementSnapshot(nil), s.items...)
}

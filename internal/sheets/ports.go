package sheets

import (
	"context"
	"time"

	"itinera/internal/core"
)

// SettlementSnapshot is a trip's ledger at a specific version, flattened
// for export.
type SettlementSnapshot struct {
	TripID     string
	TripName   string
	Currency   string
	Version    int64
	ExportedAt time.Time
	Total      core.Money
	ByCategory map[core.Category]core.Money
	Balances   core.Balances
}

// Ports for outbound adapters.
type (
	// SettlementWriter appends a settlement snapshot to an external sheet.
	SettlementWriter interface {
		AppendSettlement(ctx context.Context, s SettlementSnapshot) (rowRef string, err error)
	}
)

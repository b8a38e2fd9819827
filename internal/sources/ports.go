package sources

import (
	"context"
	"errors"

	"cashbook/internal/core"
)

// ErrNotFound is returned by any ManualEntryStore when the targeted entry
// does not exist.
var ErrNotFound = errors.New("manual entry not found")

// Ports for the collaborators that supply and mutate source records.
// The ledger engine itself never touches persistence; it is handed the
// snapshots these readers return.
type (
	SaleReader interface {
		ListSales(ctx context.Context) ([]core.Sale, error)
	}

	CostReader interface {
		ListCosts(ctx context.Context) ([]core.Cost, error)
	}

	// ManualEntryStore is the one mutable collaborator. Every successful
	// mutation must be visible to the next ListManualEntries call; there is
	// no store-side caching to invalidate.
	ManualEntryStore interface {
		ListManualEntries(ctx context.Context) ([]core.ManualEntry, error)
		GetManualEntry(ctx context.Context, id string) (*core.ManualEntry, error)
		CreateManualEntry(ctx context.Context, entry core.ManualEntry) (id string, err error)
		UpdateManualEntry(ctx context.Context, entry core.ManualEntry) error
		DeleteManualEntry(ctx context.Context, id string) error
	}

	// MasterDataReader supplies the id-to-name lookups used for entry
	// descriptions.
	MasterDataReader interface {
		MasterData(ctx context.Context) (core.MasterData, error)
	}
)

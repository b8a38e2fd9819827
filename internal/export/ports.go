package export

import (
	"context"
	"time"

	"cashbook/internal/cashbook"
	"cashbook/internal/core"
)

// LedgerExporter pushes a rebuilt month to an external report surface.
type LedgerExporter interface {
	// ExportCashBook writes the ordered entries and summary for one month.
	ExportCashBook(ctx context.Context, year int, month time.Month, currency core.Currency,
		entries []core.LedgerEntry, summary core.LedgerSummary, daily []cashbook.DaySummary) error
}

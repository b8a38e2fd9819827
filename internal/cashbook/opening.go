// Package cashbook reconstructs a chronological, running-balance cash ledger
// for one calendar month from three independently edited record collections:
// sales (cash-in), costs (cash-out), and manual entries (either direction).
//
// Everything in this package is a pure computation over already-fetched
// slices. The ledger is always rebuilt from scratch; nothing here caches,
// mutates its inputs, or performs I/O.
package cashbook

import (
	"time"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// monthStart returns the first instant (UTC) of the given month.
func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// OpeningBalance folds every record dated strictly before the first instant
// of (year, month) into a single signed total in the selected currency.
//
// The fold always runs over the full history rather than trusting any
// previously computed closing balance: records can be back-dated or edited
// after the fact, so month M's opening is only correct when derived from all
// records before M. Records whose dates cannot be parsed are skipped.
func OpeningBalance(sales []core.Sale, costs []core.Cost, manual []core.ManualEntry, year int, month time.Month, currency core.Currency) decimal.Decimal {
	cutoff := monthStart(year, month)

	total := decimal.Zero
	for _, s := range sales {
		if s.Date.Before(cutoff) {
			total = total.Add(s.Amount(currency))
		}
	}
	for _, c := range costs {
		if c.Date.Before(cutoff) {
			total = total.Sub(c.Amount(currency))
		}
	}
	for _, m := range manual {
		if m.Date.Before(cutoff) {
			total = total.Add(m.Signed(currency))
		}
	}
	return total
}

// Excluded returns the references of records whose dates could not be
// parsed, in source order. These records appear in no opening balance and no
// ledger; the caller decides whether to log or surface them.
func Excluded(sales []core.Sale, costs []core.Cost, manual []core.ManualEntry) []string {
	var refs []string
	for _, s := range sales {
		if !s.Date.Valid() {
			refs = append(refs, core.Reference(core.TypeSale, s.ID))
		}
	}
	for _, c := range costs {
		if !c.Date.Valid() {
			refs = append(refs, core.Reference(core.TypeCost, c.ID))
		}
	}
	for _, m := range manual {
		if !m.Date.Valid() {
			refs = append(refs, core.Reference(core.TypeManual, m.ID))
		}
	}
	return refs
}

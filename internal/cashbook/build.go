package cashbook

import (
	"fmt"
	"sort"
	"time"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// candidate is a ledger entry awaiting its balance, carrying the merge
// sequence number used as the deterministic tiebreak for same-date entries.
type candidate struct {
	entry core.LedgerEntry
	seq   int
}

// Build generates the cash book for (year, month) in the selected currency.
//
// Records from the three sources are filtered to the month, mapped to
// entries, sorted by date ascending (ties broken by merge order: sales,
// costs, manual entries, each in input order), and the running balance is
// folded left-to-right starting from opening. Repeated builds over unchanged
// input produce identical output.
//
// Records with unparseable dates are silently excluded, matching
// OpeningBalance, so a record is never double-counted or dropped by one side
// and kept by the other.
func Build(sales []core.Sale, costs []core.Cost, manual []core.ManualEntry, year int, month time.Month, currency core.Currency, opening decimal.Decimal, master core.MasterData) []core.LedgerEntry {
	start := monthStart(year, month)
	end := start.AddDate(0, 1, 0)

	candidates := make([]candidate, 0, len(sales)+len(costs)+len(manual))
	seq := 0
	add := func(e core.LedgerEntry) {
		candidates = append(candidates, candidate{entry: e, seq: seq})
		seq++
	}

	for _, s := range sales {
		if !s.Date.In(start, end) {
			continue
		}
		add(core.LedgerEntry{
			Date:        s.Date.Time(),
			Description: saleDescription(s, master),
			Type:        core.TypeSale,
			Reference:   core.Reference(core.TypeSale, s.ID),
			CashIn:      s.Amount(currency),
			CashOut:     decimal.Zero,
		})
	}
	for _, c := range costs {
		if !c.Date.In(start, end) {
			continue
		}
		add(core.LedgerEntry{
			Date:        c.Date.Time(),
			Description: costDescription(c, master),
			Type:        core.TypeCost,
			Reference:   core.Reference(core.TypeCost, c.ID),
			CashIn:      decimal.Zero,
			CashOut:     c.Amount(currency),
		})
	}
	for _, m := range manual {
		if !m.Date.In(start, end) {
			continue
		}
		in, out := decimal.Zero, decimal.Zero
		if m.Direction == core.DirectionDebit {
			out = m.Amount(currency)
		} else {
			in = m.Amount(currency)
		}
		add(core.LedgerEntry{
			Date:        m.Date.Time(),
			Description: manualDescription(m),
			Type:        core.TypeManual,
			Reference:   core.Reference(core.TypeManual, m.ID),
			CashIn:      in,
			CashOut:     out,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		di, dj := candidates[i].entry.Date, candidates[j].entry.Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return candidates[i].seq < candidates[j].seq
	})

	entries := make([]core.LedgerEntry, len(candidates))
	balance := opening
	for i, c := range candidates {
		balance = balance.Add(c.entry.CashIn).Sub(c.entry.CashOut)
		c.entry.Balance = balance
		entries[i] = c.entry
	}
	return entries
}

func saleDescription(s core.Sale, master core.MasterData) string {
	desc := "Sale: " + master.ProductName(s.ProductID)
	if s.Channel != "" {
		desc += fmt.Sprintf(" (%s)", s.Channel)
	}
	if s.QuantitySold > 0 {
		desc += fmt.Sprintf(" x%d", s.QuantitySold)
	}
	return desc
}

func costDescription(c core.Cost, master core.MasterData) string {
	desc := "Cost: " + master.ExpenseName(c.ExpenseTypeID)
	if c.ActivityTypeID != "" {
		desc += fmt.Sprintf(" (%s)", master.ActivityName(c.ActivityTypeID))
	}
	return desc
}

func manualDescription(m core.ManualEntry) string {
	if m.Description != "" {
		return m.Description
	}
	return "Manual entry"
}

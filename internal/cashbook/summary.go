package cashbook

import (
	"sort"
	"time"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// DaySummary aggregates one calendar day of a built ledger.
type DaySummary struct {
	Day     time.Time       `json:"day"`
	Count   int             `json:"count"`
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	// Balance is the running balance after the day's last entry.
	Balance decimal.Decimal `json:"balance"`
}

// TypeSummary aggregates one transaction type of a built ledger.
type TypeSummary struct {
	Type    core.TransactionType `json:"transactionType"`
	Count   int                  `json:"count"`
	CashIn  decimal.Decimal      `json:"cashIn"`
	CashOut decimal.Decimal      `json:"cashOut"`
}

// TypeTotals is the per-type roll-up plus its grand total. Summing the
// per-type rows always reproduces the grand total, which in turn matches
// the top-level summary.
type TypeTotals struct {
	ByType []TypeSummary `json:"byType"`
	Total  TypeSummary   `json:"total"`
}

// Summarize reduces a built ledger to opening balance, total cash-in, total
// cash-out, and closing balance. The closing balance of a non-empty ledger
// is the last entry's running balance; an empty ledger closes at its
// opening.
func Summarize(opening decimal.Decimal, entries []core.LedgerEntry) core.LedgerSummary {
	summary := core.LedgerSummary{
		OpeningBalance: opening,
		TotalCashIn:    decimal.Zero,
		TotalCashOut:   decimal.Zero,
		ClosingBalance: opening,
	}
	for _, e := range entries {
		summary.TotalCashIn = summary.TotalCashIn.Add(e.CashIn)
		summary.TotalCashOut = summary.TotalCashOut.Add(e.CashOut)
	}
	if n := len(entries); n > 0 {
		summary.ClosingBalance = entries[n-1].Balance
	}
	return summary
}

// DailyBreakdown groups a built ledger by calendar day (UTC), in ascending
// day order. Each day keeps its transaction count, summed cash-in/out, and
// the balance of the day's last entry.
func DailyBreakdown(entries []core.LedgerEntry) []DaySummary {
	byDay := make(map[time.Time]*DaySummary)
	for _, e := range entries {
		day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		ds, ok := byDay[day]
		if !ok {
			ds = &DaySummary{Day: day, CashIn: decimal.Zero, CashOut: decimal.Zero}
			byDay[day] = ds
		}
		ds.Count++
		ds.CashIn = ds.CashIn.Add(e.CashIn)
		ds.CashOut = ds.CashOut.Add(e.CashOut)
		// Entries arrive sorted, so the last write wins.
		ds.Balance = e.Balance
	}

	days := make([]DaySummary, 0, len(byDay))
	for _, ds := range byDay {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days
}

// TypeBreakdown groups a built ledger by transaction type in the fixed order
// SALE, COST, MANUAL, with a grand total row.
func TypeBreakdown(entries []core.LedgerEntry) TypeTotals {
	order := []core.TransactionType{core.TypeSale, core.TypeCost, core.TypeManual}
	byType := make(map[core.TransactionType]*TypeSummary, len(order))
	for _, t := range order {
		byType[t] = &TypeSummary{Type: t, CashIn: decimal.Zero, CashOut: decimal.Zero}
	}

	total := TypeSummary{CashIn: decimal.Zero, CashOut: decimal.Zero}
	for _, e := range entries {
		ts := byType[e.Type]
		ts.Count++
		ts.CashIn = ts.CashIn.Add(e.CashIn)
		ts.CashOut = ts.CashOut.Add(e.CashOut)

		total.Count++
		total.CashIn = total.CashIn.Add(e.CashIn)
		total.CashOut = total.CashOut.Add(e.CashOut)
	}

	out := TypeTotals{ByType: make([]TypeSummary, 0, len(order)), Total: total}
	for _, t := range order {
		out.ByType = append(out.ByType, *byType[t])
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cashbook/internal/cashbook"
	"cashbook/internal/core"
	"cashbook/internal/log"
	"cashbook/internal/sources"

	"golang.org/x/sync/errgroup"
)

// MonthlyCashBook is one fully built month: the ordered entries, the
// headline summary, and both reporting roll-ups, all in one currency.
// It is derived state; callers may cache it keyed on (year, month,
// currency) but the service itself rebuilds from scratch on every call.
type MonthlyCashBook struct {
	Year     int                   `json:"year"`
	Month    time.Month            `json:"month"`
	Currency core.Currency         `json:"currency"`
	Summary  core.LedgerSummary    `json:"summary"`
	Entries  []core.LedgerEntry    `json:"entries"`
	Daily    []cashbook.DaySummary `json:"daily"`
	ByType   cashbook.TypeTotals   `json:"byType"`
}

// CashBookService orchestrates a ledger build: snapshot the three source
// collections plus master data, then run the pure pipeline over the
// snapshot. Two calls racing a manual-entry mutation each see whichever
// snapshot they fetched; consistency across sources is not attempted.
type CashBookService struct {
	sales  sources.SaleReader
	costs  sources.CostReader
	manual sources.ManualEntryStore
	master sources.MasterDataReader
}

func NewCashBookService(sales sources.SaleReader, costs sources.CostReader, manual sources.ManualEntryStore, master sources.MasterDataReader) *CashBookService {
	return &CashBookService{
		sales:  sales,
		costs:  costs,
		manual: manual,
		master: master,
	}
}

// BuildMonth fetches a snapshot of all sources and reconstructs the cash
// book for (year, month) in the selected currency.
func (s *CashBookService) BuildMonth(ctx context.Context, year int, month time.Month, currency core.Currency) (*MonthlyCashBook, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidCurrency, currency)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	var (
		sales  []core.Sale
		costs  []core.Cost
		manual []core.ManualEntry
		master core.MasterData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = s.sales.ListSales(gctx)
		return err
	})
	g.Go(func() (err error) {
		costs, err = s.costs.ListCosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		manual, err = s.manual.ListManualEntries(gctx)
		return err
	})
	g.Go(func() (err error) {
		master, err = s.master.MasterData(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("snapshot sources: %w", err)
	}

	if skipped := cashbook.Excluded(sales, costs, manual); len(skipped) > 0 {
		slog.WarnContext(ctx, "Records excluded from cash book: unparseable dates",
			log.FieldComponent, log.ComponentCashBook,
			log.FieldSkipped, skipped,
			"count", len(skipped))
	}

	opening := cashbook.OpeningBalance(sales, costs, manual, year, month, currency)
	entries := cashbook.Build(sales, costs, manual, year, month, currency, opening, master)

	slog.InfoContext(ctx, "Cash book rebuilt",
		log.FieldComponent, log.ComponentCashBook,
		log.FieldOperation, log.OpBuild,
		log.FieldYear, year,
		log.FieldMonth, int(month),
		log.FieldCurrency, currency,
		log.FieldEntryCount, len(entries))

	return &MonthlyCashBook{
		Year:     year,
		Month:    month,
		Currency: currency,
		Summary:  cashbook.Summarize(opening, entries),
		Entries:  entries,
		Daily:    cashbook.DailyBreakdown(entries),
		ByType:   cashbook.TypeBreakdown(entries),
	}, nil
}

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/cashbook"
	"cashbook/internal/core"
	"cashbook/internal/services"
	"cashbook/internal/sources/memory"

	"github.com/shopspring/decimal"
)

type fakeExporter struct {
	calls []exportCall
	err   error
}

type exportCall struct {
	year     int
	month    time.Month
	currency core.Currency
	entries  int
	summary  core.LedgerSummary
}

func (f *fakeExporter) ExportCashBook(_ context.Context, year int, month time.Month, currency core.Currency,
	entries []core.LedgerEntry, summary core.LedgerSummary, daily []cashbook.DaySummary) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, exportCall{
		year:     year,
		month:    month,
		currency: currency,
		entries:  len(entries),
		summary:  summary,
	})
	return nil
}

func newWorkerFixture(exporter *fakeExporter) *ExportWorker {
	store := memory.New(core.MasterData{})
	store.Seed(
		[]core.Sale{
			{ID: "s1", Date: core.NewTimestamp(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)), AmountUSD: decimal.NewFromInt(40)},
		},
		[]core.Cost{
			{ID: "c1", Date: core.NewTimestamp(time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)), AmountUSD: decimal.NewFromInt(15)},
		},
	)
	books := services.NewCashBookService(store, store, store, store)
	return NewExportWorker(books, exporter, core.CurrencyUSD)
}

func TestHandleInvalidation(t *testing.T) {
	exporter := &fakeExporter{}
	w := newWorkerFixture(exporter)

	msg := amqp.NewInvalidationMessage(2026, time.January)
	if err := w.HandleInvalidation(context.Background(), msg); err != nil {
		t.Fatalf("HandleInvalidation: %v", err)
	}

	if len(exporter.calls) != 1 {
		t.Fatalf("exports = %d, want 1", len(exporter.calls))
	}
	call := exporter.calls[0]
	if call.year != 2026 || call.month != time.January || call.currency != core.CurrencyUSD {
		t.Errorf("exported period = %d-%d %s", call.year, int(call.month), call.currency)
	}
	if call.entries != 2 {
		t.Errorf("exported entries = %d, want 2", call.entries)
	}
	if !call.summary.ClosingBalance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("exported closing = %s, want 25", call.summary.ClosingBalance)
	}
}

func TestHandleInvalidationExportFailure(t *testing.T) {
	exporter := &fakeExporter{err: errors.New("quota exceeded")}
	w := newWorkerFixture(exporter)

	msg := amqp.NewInvalidationMessage(2026, time.January)
	if err := w.HandleInvalidation(context.Background(), msg); err == nil {
		t.Error("export failure not propagated, message would be acked")
	}
}

func TestHandleInvalidationBadPeriod(t *testing.T) {
	exporter := &fakeExporter{}
	w := newWorkerFixture(exporter)

	msg := amqp.NewInvalidationMessage(2026, time.Month(13))
	if err := w.HandleInvalidation(context.Background(), msg); err == nil {
		t.Error("month 13 accepted")
	}
	if len(exporter.calls) != 0 {
		t.Errorf("export attempted for invalid period")
	}
}

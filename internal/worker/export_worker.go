package worker

import (
	"context"
	"fmt"
	"log/slog"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/services"
)

// ExportWorker reacts to month invalidation messages: it rebuilds the
// affected month from storage and rewrites the corresponding spreadsheet
// tab. Export is idempotent, so redelivered messages are harmless.
type ExportWorker struct {
	books    *services.CashBookService
	exporter export.LedgerExporter
	currency core.Currency
}

func NewExportWorker(books *services.CashBookService, exporter export.LedgerExporter, currency core.Currency) *ExportWorker {
	return &ExportWorker{
		books:    books,
		exporter: exporter,
		currency: currency,
	}
}

// HandleInvalidation processes a single invalidation message from AMQP.
func (w *ExportWorker) HandleInvalidation(ctx context.Context, msg *amqp.InvalidationMessage) error {
	slog.InfoContext(ctx, "Processing invalidation",
		"year", msg.Year,
		"month", int(msg.Month),
		"currency", string(w.currency))

	book, err := w.books.BuildMonth(ctx, msg.Year, msg.Month, w.currency)
	if err != nil {
		return fmt.Errorf("rebuild month: %w", err)
	}

	if err := w.exporter.ExportCashBook(ctx, book.Year, book.Month, book.Currency,
		book.Entries, book.Summary, book.Daily); err != nil {
		return fmt.Errorf("export month: %w", err)
	}

	slog.InfoContext(ctx, "Month exported",
		"year", book.Year,
		"month", int(book.Month),
		"entries", len(book.Entries),
		"closingBalance", book.Summary.ClosingBalance.String())

	return nil
}

// Run blocks consuming invalidation messages until ctx is cancelled or the
// broker connection fails.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeInvalidations(ctx, func(msg *amqp.InvalidationMessage) error {
		return w.HandleInvalidation(ctx, msg)
	})
}

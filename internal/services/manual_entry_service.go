package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/log"
	"cashbook/internal/sources"
)

// ManualEntryService orchestrates manual-entry mutations. Every successful
// write is followed by a best-effort invalidation publish so downstream
// consumers (report exporter, cached dashboards) rebuild the affected month.
// The write is the source of truth; a failed publish is logged, not
// surfaced, because the next read rebuilds from the live collections anyway.
type ManualEntryService struct {
	store      sources.ManualEntryStore
	amqpClient *amqp.Client
}

func NewManualEntryService(store sources.ManualEntryStore, amqpClient *amqp.Client) *ManualEntryService {
	return &ManualEntryService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// List returns every stored manual entry.
func (s *ManualEntryService) List(ctx context.Context) ([]core.ManualEntry, error) {
	entries, err := s.store.ListManualEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list manual entries: %w", err)
	}
	return entries, nil
}

// Create validates and persists a new manual entry, returning its id.
func (s *ManualEntryService) Create(ctx context.Context, entry core.ManualEntry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", fmt.Errorf("validate manual entry: %w", err)
	}

	id, err := s.store.CreateManualEntry(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("create manual entry: %w", err)
	}

	s.publishInvalidation(ctx, entry.Date)
	return id, nil
}

// Update validates and persists changes to an existing manual entry. When the
// update moves the entry to a different month, both the old and the new month
// are invalidated; each holds a build the moved record no longer belongs to
// or newly belongs to.
func (s *ManualEntryService) Update(ctx context.Context, entry core.ManualEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("manual entry id is required")
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validate manual entry: %w", err)
	}

	prev, err := s.store.GetManualEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("load manual entry: %w", err)
	}

	if err := s.store.UpdateManualEntry(ctx, entry); err != nil {
		return fmt.Errorf("update manual entry: %w", err)
	}

	s.publishInvalidation(ctx, entry.Date)
	prevYear, prevMonth := invalidationPeriod(prev.Date)
	newYear, newMonth := invalidationPeriod(entry.Date)
	if prevYear != newYear || prevMonth != newMonth {
		s.publishInvalidation(ctx, prev.Date)
	}
	return nil
}

// Delete removes a manual entry. The stored entry's own month is invalidated;
// the caller-supplied date is only a fallback for when the lookup fails.
func (s *ManualEntryService) Delete(ctx context.Context, id string, date core.Timestamp) error {
	if prev, err := s.store.GetManualEntry(ctx, id); err == nil && prev.Date.Valid() {
		date = prev.Date
	}

	if err := s.store.DeleteManualEntry(ctx, id); err != nil {
		return fmt.Errorf("delete manual entry: %w", err)
	}

	s.publishInvalidation(ctx, date)
	return nil
}

func (s *ManualEntryService) publishInvalidation(ctx context.Context, date core.Timestamp) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping invalidation")
		return
	}

	year, month := invalidationPeriod(date)
	if err := s.amqpClient.PublishInvalidation(ctx, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish invalidation",
			log.FieldComponent, log.ComponentManual,
			log.FieldYear, year,
			log.FieldMonth, int(month),
			log.FieldError, err)
		// Don't fail the request - the mutation is already persisted.
	}
}

// invalidationPeriod maps an entry date to the month that must be rebuilt,
// falling back to the current month when the date is unusable.
func invalidationPeriod(date core.Timestamp) (int, time.Month) {
	if date.Valid() {
		t := date.Time()
		return t.Year(), t.Month()
	}
	now := time.Now().UTC()
	return now.Year(), now.Month()
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashbook/internal/core"
	"cashbook/internal/sources"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the source ports over a local SQLite file.
// Dates are stored as epoch seconds (NULL when the upstream record carried
// an unparseable date) and amounts as decimal strings.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListSales implements sources.SaleReader.
func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_date, amount_fc, amount_usd, product_id, activity_type_id, channel, quantity_sold, exchange_rate
		FROM sales`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []core.Sale
	for rows.Next() {
		var (
			s        core.Sale
			date     sql.NullInt64
			fc, usd  string
			rate     string
			quantity int64
		)
		if err := rows.Scan(&s.ID, &date, &fc, &usd, &s.ProductID, &s.ActivityTypeID, &s.Channel, &quantity, &rate); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Date = timestampFromColumn(date)
		s.AmountFC = decimalFromColumn(fc)
		s.AmountUSD = decimalFromColumn(usd)
		s.ExchangeRate = decimalFromColumn(rate)
		s.QuantitySold = quantity
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

// ListCosts implements sources.CostReader.
func (r *SQLiteRepository) ListCosts(ctx context.Context) ([]core.Cost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cost_date, amount_fc, amount_usd, expense_type_id, activity_type_id, exchange_rate
		FROM costs`)
	if err != nil {
		return nil, fmt.Errorf("query costs: %w", err)
	}
	defer rows.Close()

	var costs []core.Cost
	for rows.Next() {
		var (
			c       core.Cost
			date    sql.NullInt64
			fc, usd string
			rate    string
		)
		if err := rows.Scan(&c.ID, &date, &fc, &usd, &c.ExpenseTypeID, &c.ActivityTypeID, &rate); err != nil {
			return nil, fmt.Errorf("scan cost: %w", err)
		}
		c.Date = timestampFromColumn(date)
		c.AmountFC = decimalFromColumn(fc)
		c.AmountUSD = decimalFromColumn(usd)
		c.ExchangeRate = decimalFromColumn(rate)
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate costs: %w", err)
	}
	return costs, nil
}

// ListManualEntries implements sources.ManualEntryStore.
func (r *SQLiteRepository) ListManualEntries(ctx context.Context) ([]core.ManualEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entry_date, amount_fc, amount_usd, description, direction
		FROM manual_entries`)
	if err != nil {
		return nil, fmt.Errorf("query manual entries: %w", err)
	}
	defer rows.Close()

	var entries []core.ManualEntry
	for rows.Next() {
		var (
			m         core.ManualEntry
			date      sql.NullInt64
			fc, usd   string
			direction string
		)
		if err := rows.Scan(&m.ID, &date, &fc, &usd, &m.Description, &direction); err != nil {
			return nil, fmt.Errorf("scan manual entry: %w", err)
		}
		m.Date = timestampFromColumn(date)
		m.AmountFC = decimalFromColumn(fc)
		m.AmountUSD = decimalFromColumn(usd)
		m.Direction = core.Direction(direction)
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manual entries: %w", err)
	}
	return entries, nil
}

// CreateManualEntry implements sources.ManualEntryStore.
func (r *SQLiteRepository) CreateManualEntry(ctx context.Context, entry core.ManualEntry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO manual_entries (id, entry_date, amount_fc, amount_usd, description, direction)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Date.Unix(), entry.AmountFC.String(), entry.AmountUSD.String(),
		entry.Description, string(entry.Direction))
	if err != nil {
		return "", fmt.Errorf("create manual entry: %w", err)
	}

	slog.InfoContext(ctx, "Manual entry saved to SQLite",
		"id", entry.ID,
		"description", entry.Description,
		"direction", entry.Direction)

	return entry.ID, nil
}

// UpdateManualEntry implements sources.ManualEntryStore.
func (r *SQLiteRepository) UpdateManualEntry(ctx context.Context, entry core.ManualEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE manual_entries
		SET entry_date = ?, amount_fc = ?, amount_usd = ?, description = ?, direction = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		entry.Date.Unix(), entry.AmountFC.String(), entry.AmountUSD.String(),
		entry.Description, string(entry.Direction), entry.ID)
	if err != nil {
		return fmt.Errorf("update manual entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update manual entry rows affected: %w", err)
	}
	if affected == 0 {
		return sources.ErrNotFound
	}

	slog.InfoContext(ctx, "Manual entry updated", "id", entry.ID)
	return nil
}

// DeleteManualEntry implements sources.ManualEntryStore.
func (r *SQLiteRepository) DeleteManualEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM manual_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete manual entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete manual entry rows affected: %w", err)
	}
	if affected == 0 {
		return sources.ErrNotFound
	}

	slog.InfoContext(ctx, "Manual entry deleted", "id", id)
	return nil
}

// GetManualEntry implements sources.ManualEntryStore.
func (r *SQLiteRepository) GetManualEntry(ctx context.Context, id string) (*core.ManualEntry, error) {
	var (
		m         core.ManualEntry
		date      sql.NullInt64
		fc, usd   string
		direction string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, entry_date, amount_fc, amount_usd, description, direction
		FROM manual_entries WHERE id = ?`, id).
		Scan(&m.ID, &date, &fc, &usd, &m.Description, &direction)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sources.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get manual entry: %w", err)
	}
	m.Date = timestampFromColumn(date)
	m.AmountFC = decimalFromColumn(fc)
	m.AmountUSD = decimalFromColumn(usd)
	m.Direction = core.Direction(direction)
	return &m, nil
}

// MasterData implements sources.MasterDataReader.
func (r *SQLiteRepository) MasterData(ctx context.Context) (core.MasterData, error) {
	md := core.MasterData{
		Products:      map[string]string{},
		ActivityTypes: map[string]string{},
		ExpenseTypes:  map[string]string{},
	}

	tables := []struct {
		query string
		dest  map[string]string
	}{
		{`SELECT id, name FROM products`, md.Products},
		{`SELECT id, name FROM activity_types`, md.ActivityTypes},
		{`SELECT id, name FROM expense_types`, md.ExpenseTypes},
	}
	for _, t := range tables {
		if err := r.readNames(ctx, t.query, t.dest); err != nil {
			return md, err
		}
	}
	return md, nil
}

func (r *SQLiteRepository) readNames(ctx context.Context, query string, dest map[string]string) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query master data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan master data: %w", err)
		}
		dest[id] = name
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate master data: %w", err)
	}
	return nil
}

// timestampFromColumn converts a nullable epoch-seconds column. NULL maps to
// the invalid Timestamp, which the engine excludes from every build.
func timestampFromColumn(v sql.NullInt64) core.Timestamp {
	if !v.Valid {
		return core.Timestamp{}
	}
	return core.TimestampFromUnix(v.Int64)
}

// decimalFromColumn parses a stored decimal string, treating malformed or
// empty values as zero. A record with one unusable amount may still be valid
// in the other currency.
func decimalFromColumn(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Ensure interface conformance
var (
	_ sources.SaleReader       = (*SQLiteRepository)(nil)
	_ sources.CostReader       = (*SQLiteRepository)(nil)
	_ sources.ManualEntryStore = (*SQLiteRepository)(nil)
	_ sources.MasterDataReader = (*SQLiteRepository)(nil)
)

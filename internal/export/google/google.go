// Package google exports rebuilt cash books to a Google spreadsheet, one
// tab per (month, currency). This is the dashboard's printable report
// surface; the engine never reads anything back from it.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cashbook/internal/cashbook"
	"cashbook/internal/core"

	ports "cashbook/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

// Ensure interface conformance
var _ ports.LedgerExporter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. sheetBase prefixes
// every exported tab name; blank falls back to "CashBook". Credentials come
// from the environment: GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetBase string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	sheetBase = strings.TrimSpace(sheetBase)
	if sheetBase == "" {
		sheetBase = "CashBook"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// sheetName builds the tab name for one exported month, e.g. "CashBook 2026-01 USD".
func (c *Client) sheetName(year int, month time.Month, currency core.Currency) string {
	return fmt.Sprintf("%s %d-%02d %s", c.sheetBase, year, int(month), currency)
}

// ExportCashBook implements export.LedgerExporter. The target tab is
// created when missing and rewritten in full on every export, mirroring the
// rebuild-from-scratch contract of the ledger itself.
func (c *Client) ExportCashBook(ctx context.Context, year int, month time.Month, currency core.Currency,
	entries []core.LedgerEntry, summary core.LedgerSummary, daily []cashbook.DaySummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	name := c.sheetName(year, month, currency)
	if err := c.ensureSheet(ctx, name); err != nil {
		return fmt.Errorf("ensure sheet %s: %w", name, err)
	}

	// Wipe the tab before rewriting so removed entries never linger.
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, name, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", name, err)
	}

	values := [][]any{
		{"Date", "Description", "Type", "Cash In", "Cash Out", "Balance"},
		{"Opening balance", "", "", "", "", summary.OpeningBalance.String()},
	}
	for _, e := range entries {
		values = append(values, []any{
			e.Date.Format("2006-01-02"),
			e.Description,
			string(e.Type),
			e.CashIn.String(),
			e.CashOut.String(),
			e.Balance.String(),
		})
	}
	values = append(values,
		[]any{},
		[]any{"Totals", "", "", summary.TotalCashIn.String(), summary.TotalCashOut.String(), summary.ClosingBalance.String()},
	)

	if len(daily) > 0 {
		values = append(values, []any{}, []any{"Day", "Transactions", "", "Cash In", "Cash Out", "Balance"})
		for _, d := range daily {
			values = append(values, []any{
				d.Day.Format("2006-01-02"),
				d.Count,
				"",
				d.CashIn.String(),
				d.CashOut.String(),
				d.Balance.String(),
			})
		}
	}

	rng := fmt.Sprintf("%s!A1", name)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", name, err)
	}

	slog.InfoContext(ctx, "Cash book exported",
		"sheet", name,
		"rows", len(values),
		"entries", len(entries))

	return nil
}

// ensureSheet adds the named tab when the spreadsheet does not have it yet.
func (c *Client) ensureSheet(ctx context.Context, name string) error {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	slog.InfoContext(ctx, "Created export sheet", "sheet", name)
	return nil
}

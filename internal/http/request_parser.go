package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cashbook/internal/core"
)

// MonthParams holds the parsed (year, month, currency) triple every cash
// book read is keyed on.
type MonthParams struct {
	Year     int
	Month    time.Month
	Currency core.Currency
}

// CacheKey returns the response-cache key for these parameters.
func (p MonthParams) CacheKey() string {
	return fmt.Sprintf("%d-%02d-%s", p.Year, int(p.Month), p.Currency)
}

// ParseMonthParams extracts year, month, and currency from query
// parameters. Year and month default to the current date; currency
// defaults to FC. Out-of-range months and unknown currencies are
// rejected, not defaulted, so a typo never silently serves the wrong
// ledger.
func ParseMonthParams(query url.Values) (MonthParams, error) {
	now := time.Now()
	params := MonthParams{
		Year:     now.Year(),
		Month:    now.Month(),
		Currency: core.CurrencyFC,
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return MonthParams{}, fmt.Errorf("invalid year: %q", v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return MonthParams{}, fmt.Errorf("invalid month: %q", v)
		}
		params.Month = time.Month(m)
	}
	if v := strings.TrimSpace(query.Get("currency")); v != "" {
		c, err := core.ParseCurrency(v)
		if err != nil {
			return MonthParams{}, fmt.Errorf("invalid currency: %q", v)
		}
		params.Currency = c
	}

	return params, nil
}

package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CurrencyFC  Currency = "FC"
	CurrencyUSD Currency = "USD"

	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"

	TypeSale   TransactionType = "SALE"
	TypeCost   TransactionType = "COST"
	TypeManual TransactionType = "MANUAL"
)

type (
	// Currency selects which of the two amount fields on every record is
	// used for an entire ledger build. Never inferred, never mixed.
	Currency string

	// Direction is the cash-flow direction of a manual entry.
	Direction string

	// TransactionType discriminates the three record kinds merged into one
	// cash book.
	TransactionType string

	// Sale is a recorded sale. Always a cash-in movement. Edited by other
	// subsystems; the ledger engine only reads it.
	Sale struct {
		ID             string          `json:"id"`
		Date           Timestamp       `json:"date"`
		AmountFC       decimal.Decimal `json:"amountFC"`
		AmountUSD      decimal.Decimal `json:"amountUSD"`
		ProductID      string          `json:"productId"`
		ActivityTypeID string          `json:"activityTypeId"`
		Channel        string          `json:"channel"`
		QuantitySold   int64           `json:"quantitySold"`
		ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	}

	// Cost is a recorded cost. Always a cash-out movement. Read-only here.
	Cost struct {
		ID             string          `json:"id"`
		Date           Timestamp       `json:"date"`
		AmountFC       decimal.Decimal `json:"amountFC"`
		AmountUSD      decimal.Decimal `json:"amountUSD"`
		ExpenseTypeID  string          `json:"expenseTypeId"`
		ActivityTypeID string          `json:"activityTypeId"`
		ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	}

	// ManualEntry is a user-authored cash movement (owner injection,
	// miscellaneous expense). Mutable through the manual entry store.
	ManualEntry struct {
		ID          string          `json:"id"`
		Date        Timestamp       `json:"date"`
		AmountFC    decimal.Decimal `json:"amountFC"`
		AmountUSD   decimal.Decimal `json:"amountUSD"`
		Description string          `json:"description"`
		Direction   Direction       `json:"direction"`
	}

	// LedgerEntry is one row of a rebuilt cash book. Derived, never stored.
	// Exactly one of CashIn/CashOut is non-zero.
	LedgerEntry struct {
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
		Type        TransactionType `json:"transactionType"`
		Reference   string          `json:"reference"`
		CashIn      decimal.Decimal `json:"cashIn"`
		CashOut     decimal.Decimal `json:"cashOut"`
		Balance     decimal.Decimal `json:"balance"`
	}

	// LedgerSummary reduces a built ledger to its four headline figures,
	// all in the currency the ledger was built with.
	LedgerSummary struct {
		OpeningBalance decimal.Decimal `json:"openingBalance"`
		TotalCashIn    decimal.Decimal `json:"totalCashIn"`
		TotalCashOut   decimal.Decimal `json:"totalCashOut"`
		ClosingBalance decimal.Decimal `json:"closingBalance"`
	}

	// MasterData carries the id-to-name lookups used to compose entry
	// descriptions. A presentation convenience threaded through the build,
	// not an algorithmic dependency.
	MasterData struct {
		Products      map[string]string
		ActivityTypes map[string]string
		ExpenseTypes  map[string]string
	}
)

var (
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
)

// ParseCurrency validates a caller-supplied currency selector.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyFC:
		return CurrencyFC, nil
	case CurrencyUSD:
		return CurrencyUSD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
}

func (c Currency) IsValid() bool {
	return c == CurrencyFC || c == CurrencyUSD
}

func (d Direction) IsValid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// pick returns the amount field matching the selected currency. The other
// field is never read during a build (currency isolation).
func pick(fc, usd decimal.Decimal, c Currency) decimal.Decimal {
	if c == CurrencyUSD {
		return usd
	}
	return fc
}

// Amount returns the sale amount in the selected currency.
func (s Sale) Amount(c Currency) decimal.Decimal { return pick(s.AmountFC, s.AmountUSD, c) }

// Amount returns the cost amount in the selected currency.
func (co Cost) Amount(c Currency) decimal.Decimal { return pick(co.AmountFC, co.AmountUSD, c) }

// Amount returns the manual entry amount in the selected currency.
func (m ManualEntry) Amount(c Currency) decimal.Decimal { return pick(m.AmountFC, m.AmountUSD, c) }

// Signed returns the entry amount with its cash-flow sign applied: positive
// for CREDIT (cash-in), negative for DEBIT (cash-out).
func (m ManualEntry) Signed(c Currency) decimal.Decimal {
	if m.Direction == DirectionDebit {
		return m.Amount(c).Neg()
	}
	return m.Amount(c)
}

// Reference builds the cross-source unique reference for a record id.
// Namespacing by transaction type guarantees two records from different
// sources can never collide.
func Reference(t TransactionType, id string) string {
	return strings.ToLower(string(t)) + ":" + id
}

// Validate checks a manual entry before it is accepted by the store.
// Data-quality rules on sales and costs belong to the subsystems that own
// them; the engine only ever reads those.
func (m ManualEntry) Validate() error {
	if !m.Date.Valid() {
		return ErrInvalidDate
	}
	if !m.Direction.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, m.Direction)
	}
	if len(strings.TrimSpace(m.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(m.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if m.AmountFC.IsNegative() || m.AmountUSD.IsNegative() {
		return ErrInvalidAmount
	}
	if m.AmountFC.IsZero() && m.AmountUSD.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

// ProductName resolves a product id, falling back to the id itself.
func (md MasterData) ProductName(id string) string { return lookup(md.Products, id) }

// ActivityName resolves an activity type id, falling back to the id itself.
func (md MasterData) ActivityName(id string) string { return lookup(md.ActivityTypes, id) }

// ExpenseName resolves an expense type id, falling back to the id itself.
func (md MasterData) ExpenseName(id string) string { return lookup(md.ExpenseTypes, id) }

func lookup(m map[string]string, id string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return id
}

package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input   string
		want    Currency
		wantErr bool
	}{
		{"FC", CurrencyFC, false},
		{"USD", CurrencyUSD, false},
		{"usd", CurrencyUSD, false},
		{" fc ", CurrencyFC, false},
		{"EUR", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCurrency) {
					t.Fatalf("want ErrInvalidCurrency, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCurrency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAmountCurrencyIsolation(t *testing.T) {
	sale := Sale{
		AmountFC:  decimal.NewFromInt(5000),
		AmountUSD: decimal.NewFromInt(2),
	}

	if got := sale.Amount(CurrencyFC); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("FC amount = %s, want 5000", got)
	}
	if got := sale.Amount(CurrencyUSD); !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("USD amount = %s, want 2", got)
	}

	// A record carrying only one currency contributes zero in the other.
	fcOnly := Cost{AmountFC: decimal.NewFromInt(300)}
	if got := fcOnly.Amount(CurrencyUSD); !got.IsZero() {
		t.Errorf("USD amount of FC-only cost = %s, want 0", got)
	}
}

func TestManualEntrySigned(t *testing.T) {
	entry := ManualEntry{
		AmountFC:  decimal.NewFromInt(100),
		AmountUSD: decimal.NewFromInt(40),
	}

	entry.Direction = DirectionCredit
	if got := entry.Signed(CurrencyFC); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("credit signed = %s, want 100", got)
	}

	entry.Direction = DirectionDebit
	if got := entry.Signed(CurrencyUSD); !got.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("debit signed = %s, want -40", got)
	}
}

func TestReference(t *testing.T) {
	tests := []struct {
		typ  TransactionType
		id   string
		want string
	}{
		{TypeSale, "s1", "sale:s1"},
		{TypeCost, "c1", "cost:c1"},
		{TypeManual, "m1", "manual:m1"},
	}

	for _, tt := range tests {
		if got := Reference(tt.typ, tt.id); got != tt.want {
			t.Errorf("Reference(%s, %s) = %q, want %q", tt.typ, tt.id, got, tt.want)
		}
	}

	// Same raw id in different sources must never collide.
	if Reference(TypeSale, "x") == Reference(TypeCost, "x") {
		t.Error("references from different sources collided")
	}
}

func TestManualEntryValidate(t *testing.T) {
	validDate := NewTimestamp(time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC))

	valid := ManualEntry{
		Date:        validDate,
		AmountFC:    decimal.NewFromInt(100),
		Description: "Owner cash injection",
		Direction:   DirectionCredit,
	}

	tests := []struct {
		name    string
		mutate  func(e ManualEntry) ManualEntry
		wantErr error
	}{
		{
			name:   "valid entry",
			mutate: func(e ManualEntry) ManualEntry { return e },
		},
		{
			name: "invalid date",
			mutate: func(e ManualEntry) ManualEntry {
				e.Date = Timestamp{}
				return e
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "invalid direction",
			mutate: func(e ManualEntry) ManualEntry {
				e.Direction = "SIDEWAYS"
				return e
			},
			wantErr: ErrInvalidDirection,
		},
		{
			name: "blank description",
			mutate: func(e ManualEntry) ManualEntry {
				e.Description = "   "
				return e
			},
			wantErr: ErrEmptyDescription,
		},
		{
			name: "negative amount",
			mutate: func(e ManualEntry) ManualEntry {
				e.AmountUSD = decimal.NewFromInt(-1)
				return e
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "both amounts zero",
			mutate: func(e ManualEntry) ManualEntry {
				e.AmountFC = decimal.Zero
				e.AmountUSD = decimal.Zero
				return e
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		e := valid
		e.Description = strings.Repeat("x", 201)
		if err := e.Validate(); err == nil {
			t.Error("expected error for 201-character description")
		}
	})
}

func TestMasterDataLookups(t *testing.T) {
	md := MasterData{
		Products:     map[string]string{"p1": "Bread"},
		ExpenseTypes: map[string]string{"e1": "Flour"},
	}

	if got := md.ProductName("p1"); got != "Bread" {
		t.Errorf("ProductName = %q, want Bread", got)
	}
	if got := md.ProductName("p2"); got != "p2" {
		t.Errorf("unknown product should fall back to id, got %q", got)
	}
	if got := md.ActivityName("a1"); got != "a1" {
		t.Errorf("nil map lookup should fall back to id, got %q", got)
	}
	if got := md.ExpenseName("e1"); got != "Flour" {
		t.Errorf("ExpenseName = %q, want Flour", got)
	}
}

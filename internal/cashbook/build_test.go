package cashbook

import (
	"testing"
	"time"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

var testMaster = core.MasterData{
	Products:      map[string]string{"p1": "Bread", "p2": "Cake"},
	ActivityTypes: map[string]string{"a1": "Bakery"},
	ExpenseTypes:  map[string]string{"e1": "Flour", "e2": "Rent"},
}

func TestBuildOrdersByDateAndFoldsBalance(t *testing.T) {
	sales := []core.Sale{
		{ID: "s1", Date: date(2026, time.January, 10), AmountFC: dec(1000), ProductID: "p1"},
	}
	costs := []core.Cost{
		{ID: "c1", Date: date(2026, time.January, 5), AmountFC: dec(300), ExpenseTypeID: "e1"},
	}
	manual := []core.ManualEntry{
		{ID: "m1", Date: date(2026, time.January, 20), AmountFC: dec(500), Description: "Owner injection", Direction: core.DirectionCredit},
	}

	opening := dec(100)
	entries := Build(sales, costs, manual, 2026, time.January, core.CurrencyFC, opening, testMaster)

	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	wantRefs := []string{"cost:c1", "sale:s1", "manual:m1"}
	wantBalances := []int64{-200, 800, 1300}
	for i := range entries {
		if entries[i].Reference != wantRefs[i] {
			t.Errorf("entries[%d].Reference = %q, want %q", i, entries[i].Reference, wantRefs[i])
		}
		if !entries[i].Balance.Equal(dec(wantBalances[i])) {
			t.Errorf("entries[%d].Balance = %s, want %d", i, entries[i].Balance, wantBalances[i])
		}
	}

	// Dates never decrease.
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Errorf("entries[%d] dated before entries[%d]", i, i-1)
		}
	}
}

func TestBuildClosingMatchesOpeningPlusFlows(t *testing.T) {
	sales := []core.Sale{
		{ID: "s1", Date: date(2026, time.February, 3), AmountFC: dec(1200)},
		{ID: "s2", Date: date(2026, time.February, 27), AmountFC: dec(800)},
	}
	costs := []core.Cost{
		{ID: "c1", Date: date(2026, time.February, 10), AmountFC: dec(450)},
	}
	manual := []core.ManualEntry{
		{ID: "m1", Date: date(2026, time.February, 14), AmountFC: dec(50), Direction: core.DirectionDebit},
	}

	opening := dec(1000)
	entries := Build(sales, costs, manual, 2026, time.February, core.CurrencyFC, opening, core.MasterData{})
	summary := Summarize(opening, entries)

	wantClosing := opening.Add(summary.TotalCashIn).Sub(summary.TotalCashOut)
	if !summary.ClosingBalance.Equal(wantClosing) {
		t.Errorf("closing = %s, want opening+in-out = %s", summary.ClosingBalance, wantClosing)
	}
	if !summary.ClosingBalance.Equal(dec(2500)) {
		t.Errorf("closing = %s, want 2500", summary.ClosingBalance)
	}
}

func TestBuildFiltersToMonth(t *testing.T) {
	sales := []core.Sale{
		{ID: "before", Date: date(2026, time.January, 31), AmountFC: dec(1)},
		{ID: "first", Date: date(2026, time.February, 1), AmountFC: dec(2)},
		{ID: "last", Date: core.NewTimestamp(time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC)), AmountFC: dec(3)},
		{ID: "after", Date: date(2026, time.March, 1), AmountFC: dec(4)},
		{ID: "undated", AmountFC: dec(5)},
	}

	entries := Build(sales, nil, nil, 2026, time.February, core.CurrencyFC, decimal.Zero, core.MasterData{})

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Reference != "sale:first" || entries[1].Reference != "sale:last" {
		t.Errorf("got references %q, %q", entries[0].Reference, entries[1].Reference)
	}
}

func TestBuildLeapFebruary(t *testing.T) {
	sales := []core.Sale{
		{ID: "leap", Date: date(2028, time.February, 29), AmountFC: dec(10)},
		{ID: "march", Date: date(2028, time.March, 1), AmountFC: dec(20)},
	}

	entries := Build(sales, nil, nil, 2028, time.February, core.CurrencyFC, decimal.Zero, core.MasterData{})
	if len(entries) != 1 || entries[0].Reference != "sale:leap" {
		t.Fatalf("leap day entry missing or march leaked in: %+v", entries)
	}
}

func TestBuildCurrencyIsolation(t *testing.T) {
	sales := []core.Sale{
		{ID: "s1", Date: date(2026, time.January, 5), AmountFC: dec(5000), AmountUSD: dec(2)},
	}
	costs := []core.Cost{
		{ID: "c1", Date: date(2026, time.January, 6), AmountFC: dec(1000)}, // no USD amount
	}

	fc := Build(sales, costs, nil, 2026, time.January, core.CurrencyFC, decimal.Zero, core.MasterData{})
	usd := Build(sales, costs, nil, 2026, time.January, core.CurrencyUSD, decimal.Zero, core.MasterData{})

	if !fc[0].CashIn.Equal(dec(5000)) || !fc[1].CashOut.Equal(dec(1000)) {
		t.Errorf("FC build read wrong amounts: in=%s out=%s", fc[0].CashIn, fc[1].CashOut)
	}
	if !usd[0].CashIn.Equal(dec(2)) {
		t.Errorf("USD build read wrong sale amount: %s", usd[0].CashIn)
	}
	// Missing USD amount is zero, and the record still appears.
	if !usd[1].CashOut.IsZero() {
		t.Errorf("USD build should read zero for FC-only cost, got %s", usd[1].CashOut)
	}
	if len(usd) != 2 {
		t.Errorf("zero-amount record dropped from USD build")
	}
}

func TestBuildSameDateTiebreakIsStable(t *testing.T) {
	day := date(2026, time.January, 15)
	sales := []core.Sale{
		{ID: "s1", Date: day, AmountFC: dec(10)},
		{ID: "s2", Date: day, AmountFC: dec(20)},
	}
	costs := []core.Cost{
		{ID: "c1", Date: day, AmountFC: dec(5)},
	}
	manual := []core.ManualEntry{
		{ID: "m1", Date: day, AmountFC: dec(1), Direction: core.DirectionCredit},
	}

	// Same-date entries keep merge order: sales, costs, manual, each in
	// input order.
	want := []string{"sale:s1", "sale:s2", "cost:c1", "manual:m1"}

	for run := 0; run < 3; run++ {
		entries := Build(sales, costs, manual, 2026, time.January, core.CurrencyFC, decimal.Zero, core.MasterData{})
		if len(entries) != len(want) {
			t.Fatalf("run %d: len = %d, want %d", run, len(entries), len(want))
		}
		for i := range want {
			if entries[i].Reference != want[i] {
				t.Errorf("run %d: entries[%d] = %q, want %q", run, i, entries[i].Reference, want[i])
			}
		}
	}
}

func TestBuildManualEntryDirections(t *testing.T) {
	manual := []core.ManualEntry{
		{ID: "credit", Date: date(2026, time.January, 3), AmountFC: dec(200), Description: "Injection", Direction: core.DirectionCredit},
		{ID: "debit", Date: date(2026, time.January, 4), AmountFC: dec(80), Description: "Withdrawal", Direction: core.DirectionDebit},
	}

	entries := Build(nil, nil, manual, 2026, time.January, core.CurrencyFC, decimal.Zero, core.MasterData{})

	if !entries[0].CashIn.Equal(dec(200)) || !entries[0].CashOut.IsZero() {
		t.Errorf("credit entry: in=%s out=%s", entries[0].CashIn, entries[0].CashOut)
	}
	if !entries[1].CashOut.Equal(dec(80)) || !entries[1].CashIn.IsZero() {
		t.Errorf("debit entry: in=%s out=%s", entries[1].CashIn, entries[1].CashOut)
	}
	if !entries[1].Balance.Equal(dec(120)) {
		t.Errorf("final balance = %s, want 120", entries[1].Balance)
	}
}

func TestBuildDescriptions(t *testing.T) {
	sales := []core.Sale{
		{ID: "s1", Date: date(2026, time.January, 2), AmountFC: dec(1), ProductID: "p1", Channel: "market", QuantitySold: 3},
		{ID: "s2", Date: date(2026, time.January, 2), AmountFC: dec(1), ProductID: "unknown"},
	}
	costs := []core.Cost{
		{ID: "c1", Date: date(2026, time.January, 3), AmountFC: dec(1), ExpenseTypeID: "e2", ActivityTypeID: "a1"},
	}
	manual := []core.ManualEntry{
		{ID: "m1", Date: date(2026, time.January, 4), AmountFC: dec(1), Direction: core.DirectionCredit},
	}

	entries := Build(sales, costs, manual, 2026, time.January, core.CurrencyFC, decimal.Zero, testMaster)

	wantDesc := []string{
		"Sale: Bread (market) x3",
		"Sale: unknown",
		"Cost: Rent (Bakery)",
		"Manual entry",
	}
	for i := range wantDesc {
		if entries[i].Description != wantDesc[i] {
			t.Errorf("entries[%d].Description = %q, want %q", i, entries[i].Description, wantDesc[i])
		}
	}
}

func TestBuildEmptyMonth(t *testing.T) {
	entries := Build(nil, nil, nil, 2026, time.January, core.CurrencyFC, dec(42), core.MasterData{})
	if len(entries) != 0 {
		t.Fatalf("len = %d, want 0", len(entries))
	}

	summary := Summarize(dec(42), entries)
	if !summary.ClosingBalance.Equal(dec(42)) {
		t.Errorf("empty month closing = %s, want opening 42", summary.ClosingBalance)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	sales := []core.Sale{
		{ID: "s1", Date: date(2026, time.January, 7), AmountFC: dec(100)},
		{ID: "s2", Date: date(2026, time.January, 7), AmountFC: dec(200)},
	}

	first := Build(sales, nil, nil, 2026, time.January, core.CurrencyFC, decimal.Zero, core.MasterData{})
	second := Build(sales, nil, nil, 2026, time.January, core.CurrencyFC, decimal.Zero, core.MasterData{})

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Reference != second[i].Reference || !first[i].Balance.Equal(second[i].Balance) {
			t.Errorf("entry %d differs between identical builds", i)
		}
	}
}

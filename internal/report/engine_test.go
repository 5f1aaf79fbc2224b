package report

import (
	"context"
	"testing"
	"time"

	"dompet/internal/currency"
	"dompet/internal/ledger"
	"dompet/internal/models"
	"dompet/internal/testutil"
)

func date(day int) time.Time {
	return time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC)
}

func setupLedger(t *testing.T, txs ...models.Transaction) *ledger.Ledger {
	t.Helper()
	store := testutil.SetupTestStore(t)
	testutil.SeedTransactions(t, store, txs...)
	l := ledger.New(store)
	testutil.AssertNoError(t, l.Load(context.Background()))
	return l
}

func TestTotalsAndBalance(t *testing.T) {
	l := setupLedger(t,
		testutil.MakeTransaction("Salary", 5000, "Salary", models.TransactionTypeIncome, date(1)),
		testutil.MakeTransaction("Rent", 1500, "Bills", models.TransactionTypeExpense, date(2)),
		testutil.MakeTransaction("Food", 500, "Food", models.TransactionTypeExpense, date(3)),
	)
	e := NewEngine(l, nil)

	if got := e.TotalIncome(""); got != 5000 {
		t.Errorf("TotalIncome = %v, want 5000", got)
	}
	if got := e.TotalExpense(""); got != 2000 {
		t.Errorf("TotalExpense = %v, want 2000", got)
	}
	if got := e.Balance(""); got != e.TotalIncome("")-e.TotalExpense("") {
		t.Errorf("Balance = %v, want income-expense", got)
	}
}

func TestTotals_Converted(t *testing.T) {
	l := setupLedger(t,
		testutil.MakeTransaction("Salary", 100, "Salary", models.TransactionTypeIncome, date(1)),
	)

	server := newRateServer(t, map[string]float64{"IDR_USD": 0.5})
	c := currency.NewConverter(currency.NewExchangeRateClient(server.Client(), server.URL))
	c.LoadRates(context.Background(), "IDR")

	e := NewEngine(l, c)
	if got := e.TotalIncome("USD"); got != 50 {
		t.Errorf("TotalIncome(USD) = %v, want 50", got)
	}
}

func TestTotals_OriginalPairWinsOverBase(t *testing.T) {
	five := 5.0
	tx := testutil.MakeTransaction("Coffee abroad", 80000, "Food", models.TransactionTypeExpense, date(1))
	tx.OriginalCurrency = "USD"
	tx.OriginalAmount = &five
	l := setupLedger(t, tx)

	server := newRateServer(t, map[string]float64{"USD_EUR": 2, "IDR_EUR": 0.0001})
	c := currency.NewConverter(currency.NewExchangeRateClient(server.Client(), server.URL))
	c.FetchRate(context.Background(), "USD", "EUR")
	c.FetchRate(context.Background(), "IDR", "EUR")

	e := NewEngine(l, c)
	// 5 USD at rate 2, not 80000 IDR at rate 0.0001.
	if got := e.TotalExpense("EUR"); got != 10 {
		t.Errorf("TotalExpense(EUR) = %v, want 10", got)
	}
}

func TestTrend_RunningBalancePerDay(t *testing.T) {
	l := setupLedger(t,
		testutil.MakeTransaction("Salary", 100, "Salary", models.TransactionTypeIncome, date(1)),
		testutil.MakeTransaction("Lunch", 30, "Food", models.TransactionTypeExpense, date(1)),
		testutil.MakeTransaction("Dinner", 20, "Food", models.TransactionTypeExpense, date(3)),
	)
	e := NewEngine(l, nil)

	points := e.Trend("")
	want := []TrendPoint{
		{Date: "2024-06-01", Balance: 70},
		{Date: "2024-06-03", Balance: 50},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestCategorySummary(t *testing.T) {
	l := setupLedger(t,
		testutil.MakeTransaction("Lunch", 5, "Food", models.TransactionTypeExpense, date(1)),
		testutil.MakeTransaction("Dinner", 7, "Food", models.TransactionTypeExpense, date(1)),
		testutil.MakeTransaction("Bus", 3, "Transport", models.TransactionTypeExpense, date(2)),
		testutil.MakeTransaction("Salary", 900, "Salary", models.TransactionTypeIncome, date(2)),
	)
	e := NewEngine(l, nil)

	got := e.CategorySummary("", "")
	want := []CategoryTotal{
		{Category: "Food", Total: 12},
		{Category: "Transport", Total: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	t.Run("sorted_descending_no_nonpositive_entries", func(t *testing.T) {
		for i, entry := range got {
			if entry.Total <= 0 {
				t.Errorf("entry %d has non-positive total %v", i, entry.Total)
			}
			if i > 0 && got[i-1].Total < entry.Total {
				t.Errorf("entries out of order at %d", i)
			}
		}
	})

	t.Run("month_filter", func(t *testing.T) {
		if got := e.CategorySummary("2024-05", ""); len(got) != 0 {
			t.Errorf("expected no categories for 2024-05, got %+v", got)
		}
	})
}

func TestMonthlySeries_CarryForwardAndDelta(t *testing.T) {
	l := setupLedger(t,
		testutil.MakeTransaction("Salary", 100, "Salary", models.TransactionTypeIncome, date(2)),
		testutil.MakeTransaction("Lunch", 40, "Food", models.TransactionTypeExpense, date(5)),
	)
	e := NewEngine(l, nil)

	values, labels := e.MonthlySeries("2024-06", "", time.Now())
	if len(values) != 30 || len(labels) != 30 {
		t.Fatalf("got %d values / %d labels, want 30", len(values), len(labels))
	}

	// Day 1 precedes the first transaction; days 2-4 carry the salary; day 5
	// onward carries the post-lunch balance.
	if values[0] != 0 {
		t.Errorf("day 1 = %v, want 0", values[0])
	}
	for day := 2; day <= 4; day++ {
		if values[day-1] != 100 {
			t.Errorf("day %d = %v, want 100", day, values[day-1])
		}
	}
	for day := 5; day <= 30; day++ {
		if values[day-1] != 60 {
			t.Errorf("day %d = %v, want 60", day, values[day-1])
		}
	}
	if labels[0] != "1" || labels[29] != "30" {
		t.Errorf("labels = [%s ... %s], want [1 ... 30]", labels[0], labels[29])
	}

	t.Run("delta", func(t *testing.T) {
		deltas := DeltaSeries(values)
		if deltas[0] != 0 || deltas[1] != 100 || deltas[4] != -40 {
			t.Errorf("deltas = %v %v %v, want 0 100 -40", deltas[0], deltas[1], deltas[4])
		}
		for day := 6; day <= 30; day++ {
			if deltas[day-1] != 0 {
				t.Errorf("delta day %d = %v, want 0", day, deltas[day-1])
			}
		}
	})
}

func TestScenario_LunchExpense(t *testing.T) {
	store := testutil.SetupTestStore(t)
	l := ledger.New(store)
	testutil.AssertNoError(t, l.Load(context.Background()))
	e := NewEngine(l, nil)

	tx, err := l.Add(context.Background(), ledger.CreateInput{
		Title:    "Lunch",
		Amount:   10,
		Category: "Food",
		Type:     models.TransactionTypeExpense,
		Date:     time.Now(),
	}, "", nil)
	testutil.AssertNoError(t, err)

	if tx.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if got := e.TotalExpense(""); got != 10 {
		t.Errorf("TotalExpense = %v, want 10", got)
	}
	if got := e.Balance(""); got != -10 {
		t.Errorf("Balance = %v, want -10", got)
	}

	deleted, err := l.Delete(context.Background(), tx.ID)
	testutil.AssertNoError(t, err)
	if !deleted {
		t.Fatal("expected deletion")
	}
	if got := e.TotalExpense(""); got != 0 {
		t.Errorf("TotalExpense after delete = %v, want 0", got)
	}
}

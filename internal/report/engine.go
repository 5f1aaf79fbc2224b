// Package report derives aggregate views from the ledger snapshot: totals,
// balance trends, and category breakdowns, converted into a display currency.
package report

import (
	"sort"
	"strconv"
	"time"

	"dompet/internal/currency"
	"dompet/internal/ledger"
	"dompet/internal/models"
	"dompet/internal/sanitize"
)

// Engine computes read-only aggregations over the ledger's current snapshot.
// Construct once and call freely; every method re-reads the snapshot.
type Engine struct {
	ledger    *ledger.Ledger
	converter *currency.Converter
}

// NewEngine creates an Engine. The converter may be nil, in which case
// amounts are aggregated as stored, without conversion.
func NewEngine(l *ledger.Ledger, c *currency.Converter) *Engine {
	return &Engine{ledger: l, converter: c}
}

// TrendPoint is the running balance as of the end of one calendar day.
type TrendPoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is the summed expense for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// TotalIncome sums income amounts converted to the target currency.
func (e *Engine) TotalIncome(target string) float64 {
	return e.totalOf(models.TransactionTypeIncome, target)
}

// TotalExpense sums expense amounts converted to the target currency.
func (e *Engine) TotalExpense(target string) float64 {
	return e.totalOf(models.TransactionTypeExpense, target)
}

// Balance is total income minus total expense in the target currency.
func (e *Engine) Balance(target string) float64 {
	return e.TotalIncome(target) - e.TotalExpense(target)
}

// TransactionCount returns the number of transactions in the ledger.
func (e *Engine) TransactionCount() int {
	return e.ledger.Len()
}

func (e *Engine) totalOf(txType models.TransactionType, target string) float64 {
	var sum float64
	for _, tx := range e.ledger.All() {
		if tx.Type != txType {
			continue
		}
		sum += e.amountIn(tx, target)
	}
	return sum
}

// Trend walks the ledger chronologically accumulating a running signed
// balance and records, per calendar day, the balance as of that day's last
// transaction. Points come back sorted by date ascending.
func (e *Engine) Trend(target string) []TrendPoint {
	byDay, days := e.runningBalanceByDay(target)

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, TrendPoint{Date: day, Balance: byDay[day]})
	}
	return points
}

// CategorySummary sums converted expense amounts per category. When monthKey
// ("YYYY-MM") is non-empty only that month's transactions count. Categories
// with a total of zero or less are dropped and the result is sorted by total
// descending.
func (e *Engine) CategorySummary(monthKey, target string) []CategoryTotal {
	totals := map[string]float64{}
	for _, tx := range e.ledger.All() {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if monthKey != "" && tx.Day()[:7] != monthKey {
			continue
		}
		category := tx.Category
		if category == "" {
			category = "Other"
		}
		totals[category] += e.amountIn(tx, target)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		total = sanitize.NonNegative(total)
		if total <= 0 {
			continue
		}
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlySeries produces one value per calendar day of the given month
// ("YYYY-MM"): the latest known running balance at or before that day, with
// 0 before the first transaction. Labels are the day numbers. An unparseable
// month key falls back to the month containing now.
func (e *Engine) MonthlySeries(monthKey, target string, now time.Time) (values []float64, labels []string) {
	month, err := time.Parse("2006-01", monthKey)
	if err != nil {
		month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	byDay, days := e.runningBalanceByDay(target)

	lastOfMonth := month.AddDate(0, 1, -1).Day()
	values = make([]float64, 0, lastOfMonth)
	labels = make([]string, 0, lastOfMonth)
	for day := 1; day <= lastOfMonth; day++ {
		dateStr := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

		balance := 0.0
		for _, d := range days {
			if d > dateStr {
				break
			}
			balance = byDay[d]
		}

		values = append(values, sanitize.Number(balance))
		labels = append(labels, strconv.Itoa(day))
	}
	return values, labels
}

// DeltaSeries converts an absolute series into day-over-day change, with the
// first day measured against 0.
func DeltaSeries(values []float64) []float64 {
	deltas := make([]float64, 0, len(values))
	prev := 0.0
	for _, v := range values {
		deltas = append(deltas, sanitize.Number(v-prev))
		prev = v
	}
	return deltas
}

// runningBalanceByDay is the shared chronological walk behind Trend and
// MonthlySeries. Historical amounts convert at today's cached rate; there is
// no time-weighted rate lookup.
func (e *Engine) runningBalanceByDay(target string) (map[string]float64, []string) {
	txs := e.ledger.All()
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].When().Before(txs[j].When())
	})

	byDay := map[string]float64{}
	running := 0.0
	for _, tx := range txs {
		amt := e.amountIn(tx, target)
		if tx.Type == models.TransactionTypeIncome {
			running += amt
		} else {
			running -= amt
		}
		byDay[tx.Day()] = running
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return byDay, days
}

// amountIn resolves a transaction's effective amount in the target currency:
// the original entered pair when present, otherwise the stored amount
// converted from the converter's base currency. With no converter or target
// the stored amount is used as-is.
func (e *Engine) amountIn(tx models.Transaction, target string) float64 {
	amount := sanitize.Number(tx.Amount)
	if e.converter == nil || target == "" {
		return amount
	}
	if tx.OriginalCurrency != "" && tx.OriginalAmount != nil {
		return e.converter.Convert(*tx.OriginalAmount, tx.OriginalCurrency, target)
	}
	return e.converter.Convert(amount, e.converter.BaseCurrency(), target)
}

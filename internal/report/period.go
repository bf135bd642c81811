package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/model"
)

// Period selects the reporting window.
type Period string

// Reporting windows.
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll:
		return true
	}
	return false
}

// Cutoff returns the inclusive start of the window relative to now. The
// zero time means no cutoff.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

func (p Period) contains(t, now time.Time) bool {
	cutoff := p.Cutoff(now)
	if cutoff.IsZero() {
		return true
	}
	return !t.Before(cutoff)
}

// CategoryTotal is one expense category's sum within a window.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// topCategoryLimit bounds the ranked category list.
const topCategoryLimit = 5

// TopCategories ranks expense categories within the period by total spend,
// descending, and returns at most the top five. Ties keep first-seen order.
func TopCategories(expenses []model.Expense, period Period, now time.Time) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	var order []string

	for _, entry := range expenses {
		if !period.contains(entry.Date, now) {
			continue
		}
		if _, seen := sums[entry.Category]; !seen {
			order = append(order, entry.Category)
		}
		sums[entry.Category] = sums[entry.Category].Add(entry.Amount)
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryTotal{Category: category, Amount: sums[category]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})

	if len(out) > topCategoryLimit {
		out = out[:topCategoryLimit]
	}
	return out
}

// PeriodStats computes the cash flow summary restricted to a window.
func PeriodStats(income []model.Income, expenses []model.Expense, period Period, now time.Time) CashFlowSummary {
	var filteredIncome []model.Income
	for _, entry := range income {
		if period.contains(entry.Date, now) {
			filteredIncome = append(filteredIncome, entry)
		}
	}
	var filteredExpenses []model.Expense
	for _, entry := range expenses {
		if period.contains(entry.Date, now) {
			filteredExpenses = append(filteredExpenses, entry)
		}
	}
	return CashFlow(filteredIncome, filteredExpenses)
}

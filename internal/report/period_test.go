package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udhaarapp/udhaar/internal/model"
)

func expense(category string, amount int64, date time.Time) model.Expense {
	return model.Expense{
		ID:       category + date.Format("20060102"),
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	}
}

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, PeriodDaily.Valid())
	assert.True(t, PeriodWeekly.Valid())
	assert.True(t, PeriodMonthly.Valid())
	assert.True(t, PeriodAll.Valid())
	assert.False(t, Period("yearly").Valid())
}

func TestPeriod_Cutoff(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), PeriodDaily.Cutoff(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), PeriodWeekly.Cutoff(now))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Cutoff(now))
	assert.True(t, PeriodAll.Cutoff(now).IsZero())
}

func TestTopCategories(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("sums within the window only", func(t *testing.T) {
		expenses := []model.Expense{
			expense("Food", 200, thisMonth),
			expense("Food", 300, thisMonth),
			expense("Food", 9000, lastMonth),
			expense("Travel", 400, thisMonth),
		}

		top := TopCategories(expenses, PeriodMonthly, now)
		require.Len(t, top, 2)
		assert.Equal(t, "Food", top[0].Category)
		assert.True(t, top[0].Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "Travel", top[1].Category)
	})

	t.Run("caps at five categories", func(t *testing.T) {
		var expenses []model.Expense
		categories := []string{"A", "B", "C", "D", "E", "F", "G"}
		for i, c := range categories {
			expenses = append(expenses, expense(c, int64(100*(i+1)), thisMonth))
		}

		top := TopCategories(expenses, PeriodMonthly, now)
		require.Len(t, top, 5)
		assert.Equal(t, "G", top[0].Category)
		assert.Equal(t, "C", top[4].Category)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		expenses := []model.Expense{
			expense("Food", 100, thisMonth),
			expense("Travel", 100, thisMonth),
		}

		top := TopCategories(expenses, PeriodMonthly, now)
		require.Len(t, top, 2)
		assert.Equal(t, "Food", top[0].Category)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TopCategories(nil, PeriodAll, now))
	})
}

func TestPeriodStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	income := []model.Income{
		{ID: "i1", Source: "Salary", Amount: decimal.NewFromInt(5000), Date: lastWeek},
		{ID: "i2", Source: "Tip", Amount: decimal.NewFromInt(100), Date: today},
	}
	expenses := []model.Expense{
		expense("Food", 300, today),
		expense("Rent", 2000, lastWeek),
	}

	daily := PeriodStats(income, expenses, PeriodDaily, now)
	assert.True(t, daily.TotalIncome.Equal(decimal.NewFromInt(100)))
	assert.True(t, daily.TotalExpense.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 2, daily.Transactions)

	all := PeriodStats(income, expenses, PeriodAll, now)
	assert.True(t, all.TotalIncome.Equal(decimal.NewFromInt(5100)))
	assert.True(t, all.TotalExpense.Equal(decimal.NewFromInt(2300)))
	assert.Equal(t, 4, all.Transactions)
}

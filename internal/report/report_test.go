package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udhaarapp/udhaar/internal/model"
)

func loan(name string, direction model.Direction, amount int64, opts ...func(*model.Loan)) model.Loan {
	l := model.Loan{
		ID:        name + "-" + string(direction),
		Name:      name,
		Direction: direction,
		Amount:    decimal.NewFromInt(amount),
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    model.StatusActive,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func returned(l *model.Loan) { l.Returned = true }

func onDate(d time.Time) func(*model.Loan) {
	return func(l *model.Loan) { l.Date = d }
}
func pendingFrom(creator string) func(*model.Loan) {
	return func(l *model.Loan) {
		l.Status = model.StatusPending
		l.IsSynced = true
		l.CreatedBy = creator
		l.RemoteID = "r-" + l.ID
	}
}

func TestTotals(t *testing.T) {
	loans := []model.Loan{
		loan("Asha", model.DirectionGiven, 500),
		loan("Ravi", model.DirectionGiven, 200, returned),
		loan("Meera", model.DirectionTaken, 300),
		loan("Kiran", model.DirectionGiven, 100, pendingFrom("someone-else")),
	}

	totals := Totals(loans)

	// Returned and PENDING loans carry no obligation yet.
	assert.True(t, totals.Given.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.Taken.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.Net.Equal(decimal.NewFromInt(200)))
}

func TestTotals_Empty(t *testing.T) {
	totals := Totals(nil)
	assert.True(t, totals.Given.IsZero())
	assert.True(t, totals.Taken.IsZero())
	assert.True(t, totals.Net.IsZero())
}

func TestGroups(t *testing.T) {
	t.Run("folds case-insensitively and nets amounts", func(t *testing.T) {
		loans := []model.Loan{
			loan("Asha", model.DirectionGiven, 500),
			loan("asha", model.DirectionTaken, 200),
			loan("Ravi", model.DirectionTaken, 300),
		}

		groups := Groups(loans, "")
		require.Len(t, groups, 2)

		byName := map[string]GroupedLoan{}
		for _, g := range groups {
			byName[g.Name] = g
		}

		asha := byName["Asha"]
		assert.True(t, asha.NetAmount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, model.DirectionGiven, asha.Type)
		assert.Len(t, asha.Loans, 2)

		ravi := byName["Ravi"]
		assert.True(t, ravi.NetAmount.Equal(decimal.NewFromInt(-300)))
		assert.Equal(t, model.DirectionTaken, ravi.Type)
	})

	t.Run("drops zero-net groups", func(t *testing.T) {
		loans := []model.Loan{
			loan("Asha", model.DirectionGiven, 500),
			loan("Asha", model.DirectionTaken, 500),
		}
		assert.Empty(t, Groups(loans, ""))
	})

	t.Run("excludes returned and foreign pending loans", func(t *testing.T) {
		loans := []model.Loan{
			loan("Asha", model.DirectionGiven, 500, returned),
			loan("Ravi", model.DirectionGiven, 300, pendingFrom("friend-1")),
			loan("Meera", model.DirectionGiven, 100, pendingFrom("user-1")),
		}

		groups := Groups(loans, "user-1")
		require.Len(t, groups, 1)
		// An outgoing request stays visible to its creator.
		assert.Equal(t, "Meera", groups[0].Name)
	})

	t.Run("orders by most recent activity", func(t *testing.T) {
		jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		jun := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		loans := []model.Loan{
			loan("Asha", model.DirectionGiven, 500, onDate(jan)),
			loan("Ravi", model.DirectionGiven, 300, onDate(jun)),
		}

		groups := Groups(loans, "")
		require.Len(t, groups, 2)
		assert.Equal(t, "Ravi", groups[0].Name)
		assert.Equal(t, "Asha", groups[1].Name)
	})

	t.Run("idempotent", func(t *testing.T) {
		loans := []model.Loan{
			loan("Asha", model.DirectionGiven, 500),
			loan("Ravi", model.DirectionTaken, 300),
		}
		first := Groups(loans, "")
		second := Groups(loans, "")
		assert.Equal(t, first, second)
	})
}

func TestPendingRequests(t *testing.T) {
	loans := []model.Loan{
		loan("Asha", model.DirectionGiven, 500, pendingFrom("friend-1")),
		loan("Ravi", model.DirectionGiven, 300, pendingFrom("user-1")),
		loan("Meera", model.DirectionGiven, 100),
	}

	incoming := PendingRequests(loans, "user-1")
	require.Len(t, incoming, 1)
	assert.Equal(t, "Asha", incoming[0].Name)

	outgoing := OutgoingRequests(loans, "user-1")
	require.Len(t, outgoing, 1)
	assert.Equal(t, "Ravi", outgoing[0].Name)

	// Without a remote identity nothing can be incoming.
	assert.Nil(t, PendingRequests(loans, ""))
}

func TestSettlementRequests(t *testing.T) {
	settling := loan("Asha", model.DirectionGiven, 500)
	settling.IsSynced = true
	settling.Status = model.StatusSettledPending

	loans := []model.Loan{
		settling,
		loan("Ravi", model.DirectionGiven, 300),
	}

	got := SettlementRequests(loans)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha", got[0].Name)
}

func TestCashFlow(t *testing.T) {
	income := []model.Income{
		{ID: "i1", Source: "Salary", Amount: decimal.NewFromInt(5000)},
		{ID: "i2", Source: "Freelance", Amount: decimal.NewFromInt(1500)},
	}
	expenses := []model.Expense{
		{ID: "e1", Category: "Food", Amount: decimal.NewFromInt(800)},
	}

	flow := CashFlow(income, expenses)
	assert.True(t, flow.TotalIncome.Equal(decimal.NewFromInt(6500)))
	assert.True(t, flow.TotalExpense.Equal(decimal.NewFromInt(800)))
	assert.True(t, flow.Net.Equal(decimal.NewFromInt(5700)))
	assert.Equal(t, 3, flow.Transactions)
}

// Package report derives totals, groupings and period breakdowns from the
// record collections. Every function here is pure: outputs are recomputed on
// each call and nothing is cached or persisted, which is fine at
// personal-finance scale.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/model"
)

// LoanTotals holds the aggregate loan position. PENDING loans are excluded
// until accepted, returned loans drop out entirely.
type LoanTotals struct {
	Given decimal.Decimal
	Taken decimal.Decimal
	Net   decimal.Decimal
}

// Totals computes the loan position across the collection.
func Totals(loans []model.Loan) LoanTotals {
	var t LoanTotals
	for _, loan := range loans {
		if loan.Returned || loan.Status == model.StatusPending {
			continue
		}
		switch loan.Direction {
		case model.DirectionGiven:
			t.Given = t.Given.Add(loan.Amount)
		case model.DirectionTaken:
			t.Taken = t.Taken.Add(loan.Amount)
		}
	}
	t.Net = t.Given.Sub(t.Taken)
	return t
}

// GroupedLoan aggregates all open loans sharing a counterparty into one net
// signed position. Derived, never persisted.
type GroupedLoan struct {
	LastDate  time.Time
	Name      string
	Type      model.Direction
	Loans     []model.Loan
	NetAmount decimal.Decimal
}

// Groups folds open loans by counterparty name, case-insensitively. Foreign
// PENDING loans (requests awaiting the local user's decision) are excluded;
// the user's own outgoing requests stay visible in their groups. Groups that
// net to zero are dropped. Results are ordered by most recent activity.
func Groups(loans []model.Loan, selfID string) []GroupedLoan {
	groups := make(map[string]*GroupedLoan)

	for _, loan := range loans {
		if loan.Returned {
			continue
		}
		if loan.Status == model.StatusPending && !loan.CreatedByUser(selfID) {
			continue
		}

		key := strings.ToLower(loan.Name)
		g, ok := groups[key]
		if !ok {
			g = &GroupedLoan{Name: loan.Name, LastDate: loan.Date}
			groups[key] = g
		}

		g.Loans = append(g.Loans, loan)
		if loan.Direction == model.DirectionGiven {
			g.NetAmount = g.NetAmount.Add(loan.Amount)
		} else {
			g.NetAmount = g.NetAmount.Sub(loan.Amount)
		}
		if loan.Date.After(g.LastDate) {
			g.LastDate = loan.Date
		}
	}

	out := make([]GroupedLoan, 0, len(groups))
	for _, g := range groups {
		if g.NetAmount.IsZero() {
			continue
		}
		if g.NetAmount.Sign() > 0 {
			g.Type = model.DirectionGiven
		} else {
			g.Type = model.DirectionTaken
		}
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastDate.After(out[j].LastDate)
	})
	return out
}

// PendingRequests returns incoming loan requests: PENDING rows created by
// the counterparty, awaiting the local user's accept or reject.
func PendingRequests(loans []model.Loan, selfID string) []model.Loan {
	if selfID == "" {
		return nil
	}
	var out []model.Loan
	for _, loan := range loans {
		if loan.Status == model.StatusPending && !loan.CreatedByUser(selfID) {
			out = append(out, loan)
		}
	}
	return out
}

// OutgoingRequests returns the user's own PENDING requests, in limbo until
// the counterparty decides.
func OutgoingRequests(loans []model.Loan, selfID string) []model.Loan {
	var out []model.Loan
	for _, loan := range loans {
		if loan.Status == model.StatusPending && loan.CreatedByUser(selfID) {
			out = append(out, loan)
		}
	}
	return out
}

// SettlementRequests returns synced loans in the settlement handshake:
// SETTLED_PENDING rows waiting for confirmation by one of the parties.
func SettlementRequests(loans []model.Loan) []model.Loan {
	var out []model.Loan
	for _, loan := range loans {
		if loan.IsSynced && loan.Status == model.StatusSettledPending {
			out = append(out, loan)
		}
	}
	return out
}

// CashFlowSummary holds income/expense aggregates for a period.
type CashFlowSummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	Transactions int
}

// CashFlow sums income and expenses across the full collections.
func CashFlow(income []model.Income, expenses []model.Expense) CashFlowSummary {
	var s CashFlowSummary
	for _, entry := range income {
		s.TotalIncome = s.TotalIncome.Add(entry.Amount)
	}
	for _, entry := range expenses {
		s.TotalExpense = s.TotalExpense.Add(entry.Amount)
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	s.Transactions = len(income) + len(expenses)
	return s
}

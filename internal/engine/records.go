package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// AddIncome records money received. Entries are immutable once created.
func (e *Engine) AddIncome(ctx context.Context, source string, amount decimal.Decimal, note string) (*model.Income, error) {
	if strings.TrimSpace(source) == "" {
		return nil, common.NewValidationError("source", "must not be empty")
	}
	if amount.Sign() <= 0 {
		return nil, common.NewValidationError("amount", "must be a positive number")
	}

	entry := model.Income{
		ID:     e.newID(),
		Date:   e.now(),
		Source: source,
		Amount: amount,
		Note:   note,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.income = append([]model.Income{entry}, e.income...)
	e.persistIncomeLocked(ctx)
	return &entry, nil
}

// DeleteIncome removes an income entry.
func (e *Engine) DeleteIncome(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.income)
	out := e.income[:0]
	for _, entry := range e.income {
		if entry.ID != id {
			out = append(out, entry)
		}
	}
	e.income = out
	if len(e.income) == before {
		return fmt.Errorf("income %s: %w", id, common.ErrNotFound)
	}
	e.persistIncomeLocked(ctx)
	return nil
}

// AddExpense records money spent. Entries are immutable once created.
func (e *Engine) AddExpense(ctx context.Context, category string, amount decimal.Decimal, note string) (*model.Expense, error) {
	if strings.TrimSpace(category) == "" {
		return nil, common.NewValidationError("category", "must not be empty")
	}
	if amount.Sign() <= 0 {
		return nil, common.NewValidationError("amount", "must be a positive number")
	}

	entry := model.Expense{
		ID:       e.newID(),
		Date:     e.now(),
		Category: category,
		Amount:   amount,
		Note:     note,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.expenses = append([]model.Expense{entry}, e.expenses...)
	e.persistExpensesLocked(ctx)
	return &entry, nil
}

// DeleteExpense removes an expense entry.
func (e *Engine) DeleteExpense(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.expenses)
	out := e.expenses[:0]
	for _, entry := range e.expenses {
		if entry.ID != id {
			out = append(out, entry)
		}
	}
	e.expenses = out
	if len(e.expenses) == before {
		return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	e.persistExpensesLocked(ctx)
	return nil
}

// SaveProfile persists the user profile, marks onboarding complete, and
// mirrors the profile to the backend when a remote identity exists. A mirror
// failure is logged but never fails the local save.
func (e *Engine) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(profile.Mobile) == "" {
		return common.NewValidationError("mobile", "must not be empty")
	}

	if err := e.store.SaveProfile(ctx, &profile); err != nil {
		return common.NewPersistenceError(service.SlotProfile, err)
	}
	if err := e.store.SaveFlag(ctx, service.SlotOnboarded, true); err != nil {
		perr := common.NewPersistenceError(service.SlotOnboarded, err)
		common.LogError(perr, "Continuing with in-memory state only", nil)
	}

	e.mu.Lock()
	e.profile = &profile
	e.mu.Unlock()

	if e.Synced() {
		remote := service.RemoteProfile{
			ID:       e.userID,
			FullName: profile.Name,
			Phone:    profile.Mobile,
			Email:    profile.Email,
		}
		if err := e.mirror.UpsertProfile(ctx, remote); err != nil {
			common.LogError(err, "Remote profile sync failed", common.Fields{"user_id": e.userID})
		}
	}

	return nil
}

// Onboarded reports whether onboarding has completed.
func (e *Engine) Onboarded(ctx context.Context) bool {
	flag, err := e.store.LoadFlag(ctx, service.SlotOnboarded)
	if err != nil {
		return false
	}
	return flag
}

// DarkMode reports the persisted dark mode preference.
func (e *Engine) DarkMode(ctx context.Context) bool {
	flag, err := e.store.LoadFlag(ctx, service.SlotDarkMode)
	if err != nil {
		return false
	}
	return flag
}

// SetDarkMode persists the dark mode preference.
func (e *Engine) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := e.store.SaveFlag(ctx, service.SlotDarkMode, enabled); err != nil {
		return common.NewPersistenceError(service.SlotDarkMode, err)
	}
	return nil
}

// ClearAll wipes the three record collections. The profile and settings
// survive; synced remote rows are not retracted.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loans = []model.Loan{}
	e.income = []model.Income{}
	e.expenses = []model.Expense{}

	e.persistLoansLocked(ctx)
	e.persistIncomeLocked(ctx)
	e.persistExpensesLocked(ctx)
	return nil
}

func (e *Engine) persistIncomeLocked(ctx context.Context) {
	if err := e.store.SaveIncome(ctx, e.income); err != nil {
		perr := common.NewPersistenceError(service.SlotIncome, err)
		common.LogError(perr, "Continuing with in-memory state only", nil)
	}
}

func (e *Engine) persistExpensesLocked(ctx context.Context) {
	if err := e.store.SaveExpenses(ctx, e.expenses); err != nil {
		perr := common.NewPersistenceError(service.SlotExpenses, err)
		common.LogError(perr, "Continuing with in-memory state only", nil)
	}
}

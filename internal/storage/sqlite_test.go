package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestLoans_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Absent slot loads as an empty collection.
	loans, err := store.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)

	want := []model.Loan{
		{
			ID:        "l1",
			Name:      "Asha",
			Direction: model.DirectionGiven,
			Amount:    decimal.NewFromFloat(123.45),
			Note:      "books",
			Date:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Status:    model.StatusActive,
		},
		{
			ID:        "l2",
			RemoteID:  "remote-9",
			Name:      "Ravi",
			Direction: model.DirectionTaken,
			Amount:    decimal.NewFromInt(500),
			Date:      time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
			Status:    model.StatusPending,
			IsSynced:  true,
			CreatedBy: "friend-1",
			FriendID:  "friend-1",
		},
	}
	require.NoError(t, store.SaveLoans(ctx, want))

	got, err := store.LoadLoans(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l1", got[0].ID)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromFloat(123.45)))
	assert.Equal(t, model.StatusPending, got[1].Status)
	assert.True(t, got[1].IsSynced)
	assert.True(t, got[0].Date.Equal(want[0].Date))
}

func TestSaveLoans_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		loans   []model.Loan
	}{
		{
			name:    "nil collection",
			loans:   nil,
			wantErr: ErrNilParameter,
		},
		{
			name: "missing id",
			loans: []model.Loan{
				{Name: "Asha", Direction: model.DirectionGiven, Date: time.Now()},
			},
			wantErr: ErrInvalidLoan,
		},
		{
			name: "missing date",
			loans: []model.Loan{
				{ID: "l1", Name: "Asha", Direction: model.DirectionGiven},
			},
			wantErr: ErrInvalidLoan,
		},
		{
			name: "unknown direction",
			loans: []model.Loan{
				{ID: "l1", Name: "Asha", Direction: "sideways", Date: time.Now()},
			},
			wantErr: ErrInvalidLoan,
		},
		{
			name: "private loan with remote id",
			loans: []model.Loan{
				{ID: "l1", Name: "Asha", Direction: model.DirectionGiven, Date: time.Now(), RemoteID: "r1"},
			},
			wantErr: ErrInvalidLoan,
		},
		{
			name: "unknown status",
			loans: []model.Loan{
				{ID: "l1", Name: "Asha", Direction: model.DirectionGiven, Date: time.Now(), Status: "LOST"},
			},
			wantErr: ErrInvalidLoan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveLoans(ctx, tt.loans)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// An empty (non-nil) collection is valid: rejecting the last loan
	// leaves nothing behind.
	assert.NoError(t, store.SaveLoans(ctx, []model.Loan{}))
}

func TestIncomeExpenses_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	income := []model.Income{
		{ID: "i1", Source: "Salary", Amount: decimal.NewFromInt(5000), Date: time.Now().UTC()},
	}
	expenses := []model.Expense{
		{ID: "e1", Category: "Food", Amount: decimal.NewFromInt(250), Date: time.Now().UTC()},
	}

	require.NoError(t, store.SaveIncome(ctx, income))
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	gotIncome, err := store.LoadIncome(ctx)
	require.NoError(t, err)
	require.Len(t, gotIncome, 1)
	assert.Equal(t, "Salary", gotIncome[0].Source)

	gotExpenses, err := store.LoadExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, gotExpenses, 1)
	assert.True(t, gotExpenses[0].Amount.Equal(decimal.NewFromInt(250)))
}

func TestProfile_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Nil before onboarding.
	profile, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	want := &model.UserProfile{Name: "Asha", Mobile: "+91111", Email: "asha@example.com", Age: "30", Country: "India"}
	require.NoError(t, store.SaveProfile(ctx, want))

	got, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)

	// Invalid profiles are rejected before hitting the store.
	assert.ErrorIs(t, store.SaveProfile(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveProfile(ctx, &model.UserProfile{Name: "Asha"}), ErrInvalidProfile)
}

func TestFlags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	flag, err := store.LoadFlag(ctx, service.SlotDarkMode)
	require.NoError(t, err)
	assert.False(t, flag)

	require.NoError(t, store.SaveFlag(ctx, service.SlotDarkMode, true))

	flag, err = store.LoadFlag(ctx, service.SlotDarkMode)
	require.NoError(t, err)
	assert.True(t, flag)

	_, err = store.LoadFlag(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestCorruptSlot_LoadsAsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.putSlot(ctx, service.SlotLoans, "{not json"))

	loans, err := store.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Empty(t, loans)

	require.NoError(t, store.putSlot(ctx, service.SlotProfile, "[]"))

	profile, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	require.NoError(t, store.putSlot(ctx, service.SlotDarkMode, "\"maybe"))

	flag, err := store.LoadFlag(ctx, service.SlotDarkMode)
	require.NoError(t, err)
	assert.False(t, flag)
}

func TestPutSlot_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.putSlot(ctx, "k", "1"))
	require.NoError(t, store.putSlot(ctx, "k", "2"))

	value, ok, err := store.getSlot(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)
}

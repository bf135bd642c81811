// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/model"
)

// Slot keys used by the local record store. Each key holds one serialized
// collection or value.
const (
	SlotLoans     = "loans"
	SlotIncome    = "income"
	SlotExpenses  = "expenses"
	SlotProfile   = "userProfile"
	SlotOnboarded = "isOnboarded"
	SlotDarkMode  = "isDarkMode"
)

// Store defines the contract for the local record store: durable key-value
// persistence for the three record collections and the profile/settings
// values. Load methods return a type-appropriate empty default when a slot
// is absent or holds a corrupt value; Save methods rewrite the whole slot.
type Store interface {
	LoadLoans(ctx context.Context) ([]model.Loan, error)
	SaveLoans(ctx context.Context, loans []model.Loan) error

	LoadIncome(ctx context.Context) ([]model.Income, error)
	SaveIncome(ctx context.Context, income []model.Income) error

	LoadExpenses(ctx context.Context) ([]model.Expense, error)
	SaveExpenses(ctx context.Context, expenses []model.Expense) error

	// LoadProfile returns nil when no profile has been saved.
	LoadProfile(ctx context.Context) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, profile *model.UserProfile) error

	LoadFlag(ctx context.Context, key string) (bool, error)
	SaveFlag(ctx context.Context, key string, value bool) error

	Close() error
}

// RemoteTransaction is one row of the shared transactions table, with the
// counterparty display fields joined in by the query.
type RemoteTransaction struct {
	CreatedAt     time.Time
	ID            string
	LenderID      string
	BorrowerID    string
	Note          string
	Status        model.LoanStatus
	CreatedBy     string
	LenderName    string
	LenderPhone   string
	BorrowerName  string
	BorrowerPhone string
	Amount        decimal.Decimal
}

// InsertTransactionParams carries the fields for a new remote row.
type InsertTransactionParams struct {
	LenderID   string
	BorrowerID string
	Note       string
	CreatedBy  string
	Amount     decimal.Decimal
}

// RemoteProfile is the backend profiles row mirrored from the local
// user profile.
type RemoteProfile struct {
	ID       string
	FullName string
	Phone    string
	Email    string
}

// Mirror defines the contract for the remote transaction mirror: the shared
// backend table coordinating synced loans between two parties. All calls are
// fallible remote operations; none block other engine operations.
type Mirror interface {
	// InsertTransaction creates a PENDING row and returns its remote id.
	InsertTransaction(ctx context.Context, params InsertTransactionParams) (string, error)

	// UpdateTransactionStatus transitions a row from one status to another.
	// It fails with a stale-row error when the row is no longer in the
	// expected state, signalling the caller to re-sync.
	UpdateTransactionStatus(ctx context.Context, remoteID string, from, to model.LoanStatus) error

	// QueryTransactions returns all rows where the participant is lender or
	// borrower, newest first.
	QueryTransactions(ctx context.Context, participantID string) ([]RemoteTransaction, error)

	// UpsertProfile mirrors the local profile to the backend profiles table.
	UpsertProfile(ctx context.Context, profile RemoteProfile) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

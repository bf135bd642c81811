// Package engine implements the loan lifecycle engine: the authoritative
// in-memory record collections, all state transitions, and reconciliation
// between the local store and the remote transaction mirror.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// Engine owns the in-memory record collections and mediates every mutation.
// Collections are mutated under a single mutex (single-writer model) and the
// full collection is persisted after each mutation.
type Engine struct {
	store    service.Store
	mirror   service.Mirror
	now      func() time.Time
	newID    func() string
	userID   string
	loans    []model.Loan
	income   []model.Income
	expenses []model.Expense
	profile  *model.UserProfile
	mu       sync.Mutex
}

// Config holds the engine's dependencies and identity.
type Config struct {
	Store  service.Store
	Mirror service.Mirror // nil when no remote backend is configured
	UserID string         // remote identity; empty when not signed in
}

// New creates an engine and loads all collections from the local store.
// Absent or corrupt slots load as empty collections.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: store", common.ErrMissingConfig)
	}

	e := &Engine{
		store:  cfg.Store,
		mirror: cfg.Mirror,
		userID: cfg.UserID,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	var err error
	if e.loans, err = cfg.Store.LoadLoans(ctx); err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	if e.income, err = cfg.Store.LoadIncome(ctx); err != nil {
		return nil, fmt.Errorf("failed to load income: %w", err)
	}
	if e.expenses, err = cfg.Store.LoadExpenses(ctx); err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if e.profile, err = cfg.Store.LoadProfile(ctx); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	sortLoansByDate(e.loans)
	return e, nil
}

// UserID returns the remote identity the engine operates as, or "".
func (e *Engine) UserID() string {
	return e.userID
}

// Synced reports whether a remote backend and identity are configured.
func (e *Engine) Synced() bool {
	return e.mirror != nil && e.userID != ""
}

// Loans returns a copy of the loan collection, newest first.
func (e *Engine) Loans() []model.Loan {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Loan, len(e.loans))
	copy(out, e.loans)
	return out
}

// Income returns a copy of the income collection, newest first.
func (e *Engine) Income() []model.Income {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Income, len(e.income))
	copy(out, e.income)
	return out
}

// Expenses returns a copy of the expense collection, newest first.
func (e *Engine) Expenses() []model.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Expense, len(e.expenses))
	copy(out, e.expenses)
	return out
}

// Profile returns the user profile, or nil before onboarding.
func (e *Engine) Profile() *model.UserProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.profile == nil {
		return nil
	}
	p := *e.profile
	return &p
}

// AddLoanParams carries the user input for a new loan.
type AddLoanParams struct {
	Direction   model.Direction
	Name        string
	Note        string
	FriendID    string
	FriendPhone string
	Amount      decimal.Decimal
	WantSync    bool
}

// AddLoan creates a new loan record. When sync is requested and a remote
// identity is available the loan is mirrored as a PENDING remote row; if the
// mirror call fails the record silently degrades to a private loan rather
// than failing the whole operation. Exactly one local record is created
// regardless of the mirror outcome.
func (e *Engine) AddLoan(ctx context.Context, params AddLoanParams) (*model.Loan, error) {
	if !params.Direction.Valid() {
		return nil, common.NewValidationError("direction", "must be given or taken")
	}
	if params.Amount.Sign() <= 0 {
		return nil, common.NewValidationError("amount", "must be a positive number")
	}
	if params.Name == "" && params.FriendID == "" {
		return nil, common.NewValidationError("name", "counterparty name or friend id required")
	}
	if params.WantSync && params.FriendID == "" {
		return nil, common.NewValidationError("friendId", "required for a synced loan")
	}

	loan := model.Loan{
		ID:          e.newID(),
		Date:        e.now(),
		Name:        params.Name,
		Note:        params.Note,
		Direction:   params.Direction,
		Amount:      params.Amount,
		Returned:    false,
		IsSynced:    params.WantSync,
		FriendID:    params.FriendID,
		FriendPhone: params.FriendPhone,
		Status:      model.StatusActive,
	}

	if params.WantSync {
		if !e.Synced() {
			slog.Warn("Sync requested but no remote identity, keeping loan private",
				"loan_id", loan.ID)
			loan.IsSynced = false
			loan.FriendID = ""
			loan.FriendPhone = ""
		} else {
			insert := service.InsertTransactionParams{
				Note:      params.Note,
				CreatedBy: e.userID,
				Amount:    params.Amount,
			}
			if params.Direction == model.DirectionGiven {
				insert.LenderID = e.userID
				insert.BorrowerID = params.FriendID
			} else {
				insert.LenderID = params.FriendID
				insert.BorrowerID = e.userID
			}

			remoteID, err := e.mirror.InsertTransaction(ctx, insert)
			if err != nil {
				// Degrade rather than lose the record.
				common.LogError(err, "Remote mirror insert failed, keeping loan private",
					common.Fields{"loan_id": loan.ID})
				loan.IsSynced = false
				loan.FriendID = ""
				loan.FriendPhone = ""
			} else {
				loan.RemoteID = remoteID
				loan.Status = model.StatusPending
				loan.CreatedBy = e.userID
			}
		}
	}

	e.mu.Lock()
	e.loans = append([]model.Loan{loan}, e.loans...)
	e.persistLoansLocked(ctx)
	e.mu.Unlock()

	return &loan, nil
}

// AcceptLoan transitions a PENDING remote row to ACTIVE and applies the same
// transition locally. Remote failure aborts the operation with local state
// untouched; the caller can retry.
func (e *Engine) AcceptLoan(ctx context.Context, remoteID string) error {
	return e.resolveRequest(ctx, remoteID, model.StatusActive)
}

// RejectLoan transitions a PENDING remote row to REJECTED and removes the
// local record: a rejected loan carries no obligation for either party.
func (e *Engine) RejectLoan(ctx context.Context, remoteID string) error {
	return e.resolveRequest(ctx, remoteID, model.StatusRejected)
}

func (e *Engine) resolveRequest(ctx context.Context, remoteID string, outcome model.LoanStatus) error {
	if remoteID == "" {
		return common.NewValidationError("remoteId", "must not be empty")
	}
	if !e.Synced() {
		return common.NewSyncError(opName(outcome), common.ErrNoRemoteIdentity)
	}

	e.mu.Lock()
	if loan := findByRemoteID(e.loans, remoteID); loan != nil && loan.CreatedByUser(e.userID) {
		e.mu.Unlock()
		return common.NewValidationError("remoteId", "cannot resolve your own request")
	}
	e.mu.Unlock()

	if err := e.mirror.UpdateTransactionStatus(ctx, remoteID, model.StatusPending, outcome); err != nil {
		return common.NewSyncError(opName(outcome), err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if outcome == model.StatusRejected {
		e.loans = removeByRemoteID(e.loans, remoteID)
	} else if loan := findByRemoteID(e.loans, remoteID); loan != nil {
		loan.Status = outcome
	}
	e.persistLoansLocked(ctx)

	return nil
}

func opName(outcome model.LoanStatus) string {
	if outcome == model.StatusRejected {
		return "reject"
	}
	return "accept"
}

// MarkReturned marks a loan as repaid. A private loan is flagged returned
// directly. A synced ACTIVE loan starts the two-party settlement handshake:
// the remote row moves to SETTLED_PENDING and stays there until the
// counterparty confirms.
func (e *Engine) MarkReturned(ctx context.Context, localID string) error {
	if localID == "" {
		return common.NewValidationError("id", "must not be empty")
	}

	e.mu.Lock()
	loan := findByID(e.loans, localID)
	if loan == nil {
		e.mu.Unlock()
		return fmt.Errorf("loan %s: %w", localID, common.ErrNotFound)
	}

	if !loan.IsSynced {
		loan.Returned = true
		e.persistLoansLocked(ctx)
		e.mu.Unlock()
		return nil
	}

	status := loan.Status
	remoteID := loan.RemoteID
	e.mu.Unlock()

	switch status {
	case model.StatusActive:
	case model.StatusSettledPending:
		return common.NewValidationError("status", "settlement already awaiting confirmation")
	case model.StatusPending:
		return common.NewValidationError("status", "loan request has not been accepted yet")
	default:
		return common.NewValidationError("status", fmt.Sprintf("cannot settle a %s loan", status))
	}

	if !e.Synced() {
		return common.NewSyncError("settle", common.ErrNoRemoteIdentity)
	}
	if err := e.mirror.UpdateTransactionStatus(ctx, remoteID, model.StatusActive, model.StatusSettledPending); err != nil {
		return common.NewSyncError("settle", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if loan := findByID(e.loans, localID); loan != nil {
		loan.Status = model.StatusSettledPending
	}
	e.persistLoansLocked(ctx)
	return nil
}

// ConfirmSettle completes the settlement handshake: the counterparty
// acknowledges a SETTLED_PENDING row, which becomes SETTLED on both sides.
func (e *Engine) ConfirmSettle(ctx context.Context, remoteID string) error {
	if remoteID == "" {
		return common.NewValidationError("remoteId", "must not be empty")
	}
	if !e.Synced() {
		return common.NewSyncError("confirm", common.ErrNoRemoteIdentity)
	}

	if err := e.mirror.UpdateTransactionStatus(ctx, remoteID, model.StatusSettledPending, model.StatusSettled); err != nil {
		return common.NewSyncError("confirm", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if loan := findByRemoteID(e.loans, remoteID); loan != nil {
		loan.Status = model.StatusSettled
		loan.Returned = true
	}
	e.persistLoansLocked(ctx)
	return nil
}

// DeleteLoan removes a record from the local collection unconditionally.
// The remote row, if any, is not retracted: the counterparty keeps their
// view of a synced loan.
func (e *Engine) DeleteLoan(ctx context.Context, localID string) error {
	if localID == "" {
		return common.NewValidationError("id", "must not be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.loans)
	e.loans = removeByID(e.loans, localID)
	if len(e.loans) == before {
		return fmt.Errorf("loan %s: %w", localID, common.ErrNotFound)
	}
	e.persistLoansLocked(ctx)
	return nil
}

// persistLoansLocked writes the loan collection through to the store. Store
// failures are logged and the in-memory state stands for the session; the
// mutation itself is never rolled back. Callers must hold e.mu.
func (e *Engine) persistLoansLocked(ctx context.Context) {
	if err := e.store.SaveLoans(ctx, e.loans); err != nil {
		perr := common.NewPersistenceError(service.SlotLoans, err)
		common.LogError(perr, "Continuing with in-memory state only", nil)
	}
}

func sortLoansByDate(loans []model.Loan) {
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].Date.After(loans[j].Date)
	})
}

func findByID(loans []model.Loan, id string) *model.Loan {
	for i := range loans {
		if loans[i].ID == id {
			return &loans[i]
		}
	}
	return nil
}

func findByRemoteID(loans []model.Loan, remoteID string) *model.Loan {
	for i := range loans {
		if loans[i].RemoteID == remoteID {
			return &loans[i]
		}
	}
	return nil
}

func removeByID(loans []model.Loan, id string) []model.Loan {
	out := loans[:0]
	for _, l := range loans {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func removeByRemoteID(loans []model.Loan, remoteID string) []model.Loan {
	out := loans[:0]
	for _, l := range loans {
		if l.RemoteID != remoteID {
			out = append(out, l)
		}
	}
	return out
}

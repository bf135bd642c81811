package engine

import (
	"context"
	"log/slog"

	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Fetched int
	Added   int
	Updated int
	Removed int
}

// SyncLoans pulls every remote row the user participates in and merges it
// into the local collection. Rows never seen before are synthesized as local
// records; rows already materialized get only their status and returned
// fields overwritten, since the remote row is authoritative for status but
// amount, note and identity are frozen at first materialization. REJECTED
// rows are the exception: the local record is removed instead. Any fetch
// failure aborts the merge without touching local state; the next refresh
// simply tries again.
func (e *Engine) SyncLoans(ctx context.Context) (SyncResult, error) {
	if !e.Synced() {
		return SyncResult{}, common.NewSyncError("pull", common.ErrNoRemoteIdentity)
	}

	rows, err := e.mirror.QueryTransactions(ctx, e.userID)
	if err != nil {
		return SyncResult{}, common.NewSyncError("pull", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := SyncResult{Fetched: len(rows)}
	for _, row := range rows {
		// A rejected request vanishes from both replicas: drop the local
		// record if one exists, and never materialize a new one.
		if row.Status == model.StatusRejected {
			if findByRemoteID(e.loans, row.ID) != nil {
				e.loans = removeByRemoteID(e.loans, row.ID)
				result.Removed++
			}
			continue
		}

		if local := findByRemoteID(e.loans, row.ID); local != nil {
			if local.Status != row.Status {
				local.Status = row.Status
				local.Returned = row.Status == model.StatusSettled
				result.Updated++
			}
			continue
		}

		e.loans = append(e.loans, e.materialize(row))
		result.Added++
	}

	sortLoansByDate(e.loans)
	if result.Added > 0 || result.Updated > 0 || result.Removed > 0 {
		e.persistLoansLocked(ctx)
	}

	slog.Debug("Reconciled remote loans",
		"fetched", result.Fetched,
		"added", result.Added,
		"updated", result.Updated,
		"removed", result.Removed)
	return result, nil
}

// materialize builds a local loan record from a remote row, mapping the
// lender/borrower roles into a direction relative to the local user.
func (e *Engine) materialize(row service.RemoteTransaction) model.Loan {
	isLender := row.LenderID == e.userID

	name := row.BorrowerName
	phone := row.BorrowerPhone
	friendID := row.BorrowerID
	direction := model.DirectionGiven
	if !isLender {
		name = row.LenderName
		phone = row.LenderPhone
		friendID = row.LenderID
		direction = model.DirectionTaken
	}
	if name == "" {
		name = "Friend"
	}

	return model.Loan{
		// The shared remote id doubles as the local id for synced rows, so
		// both replicas address the same record the same way.
		ID:          row.ID,
		RemoteID:    row.ID,
		Name:        name,
		Amount:      row.Amount,
		Note:        row.Note,
		Date:        row.CreatedAt,
		Direction:   direction,
		Returned:    row.Status == model.StatusSettled,
		Status:      row.Status,
		IsSynced:    true,
		FriendID:    friendID,
		FriendPhone: phone,
		CreatedBy:   row.CreatedBy,
	}
}

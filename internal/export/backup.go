// Package export produces backup snapshots and flat exports of the record
// collections, suitable for handing off to other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/udhaarapp/udhaar/internal/model"
)

// Snapshot is the full-state backup document: profile plus all three
// collections, stamped with the export time and app version.
type Snapshot struct {
	ExportedAt time.Time          `json:"exportedAt"`
	AppVersion string             `json:"appVersion"`
	Profile    *model.UserProfile `json:"profile,omitempty"`
	Loans      []model.Loan       `json:"loans"`
	Income     []model.Income     `json:"income"`
	Expenses   []model.Expense    `json:"expenses"`
}

// WriteSnapshot serializes the snapshot as indented JSON.
func WriteSnapshot(w io.Writer, snapshot Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteLoansCSV writes the loan collection as a flat delimited export.
func WriteLoansCSV(w io.Writer, loans []model.Loan) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "name", "direction", "amount", "note", "date", "returned", "status", "synced", "remote_id"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, loan := range loans {
		row := []string{
			loan.ID,
			loan.Name,
			string(loan.Direction),
			loan.Amount.String(),
			loan.Note,
			loan.Date.Format(time.RFC3339),
			fmt.Sprintf("%t", loan.Returned),
			string(loan.Status),
			fmt.Sprintf("%t", loan.IsSynced),
			loan.RemoteID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

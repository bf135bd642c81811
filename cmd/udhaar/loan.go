package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/engine"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/report"
)

func loanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Record and manage loans",
		Long: `Record money you've lent or borrowed and drive a synced loan
through its lifecycle: request, accept or reject, settle, confirm.`,
	}

	cmd.AddCommand(loanAddCmd())
	cmd.AddCommand(loanListCmd())
	cmd.AddCommand(loanRequestsCmd())
	cmd.AddCommand(loanAcceptCmd())
	cmd.AddCommand(loanRejectCmd())
	cmd.AddCommand(loanSettleCmd())
	cmd.AddCommand(loanConfirmCmd())
	cmd.AddCommand(loanDeleteCmd())

	return cmd
}

func loanAddCmd() *cobra.Command {
	var (
		direction   string
		name        string
		note        string
		friendID    string
		friendPhone string
		wantSync    bool
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new loan",
		Long: `Record a new loan. With --sync the loan is mirrored to the shared
backend as a PENDING request the counterparty must accept; if mirroring
fails the loan is still recorded, as a private one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			loan, err := eng.AddLoan(cmd.Context(), engine.AddLoanParams{
				Direction:   model.Direction(direction),
				Amount:      amount,
				Name:        name,
				Note:        note,
				FriendID:    friendID,
				FriendPhone: friendPhone,
				WantSync:    wantSync,
			})
			if err != nil {
				return err
			}

			if wantSync && !loan.IsSynced {
				fmt.Println(cli.FormatWarning("Could not reach the backend; loan saved as private"))
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s loan of %s %s %s",
				loan.Direction, loan.Amount, directionPreposition(loan.Direction), loan.Name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "given", "given (you lent) or taken (you borrowed)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "counterparty name")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	cmd.Flags().StringVar(&friendID, "friend-id", "", "counterparty's backend identity (required with --sync)")
	cmd.Flags().StringVar(&friendPhone, "friend-phone", "", "counterparty's phone number")
	cmd.Flags().BoolVar(&wantSync, "sync", false, "mirror the loan to the shared backend")

	return cmd
}

func loanListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loans, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			loans := eng.Loans()
			if len(loans) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No loans recorded yet."))
				return nil
			}

			var rows []string
			for _, loan := range loans {
				if !all && loan.Settled() {
					continue
				}
				rows = append(rows, formatLoanRow(loan, eng.UserID()))
			}
			if len(rows) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No open loans. Use --all to include settled ones."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Loans"))
			fmt.Println(strings.Join(rows, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include settled and returned loans")
	return cmd
}

func loanRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "Show pending loan requests",
		Long: `Show incoming requests awaiting your decision, your own outgoing
requests still in limbo, and settlements awaiting confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			loans := eng.Loans()
			selfID := eng.UserID()

			incoming := report.PendingRequests(loans, selfID)
			outgoing := report.OutgoingRequests(loans, selfID)
			settling := report.SettlementRequests(loans)

			if len(incoming) == 0 && len(outgoing) == 0 && len(settling) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No pending requests."))
				return nil
			}

			if len(incoming) > 0 {
				fmt.Println(cli.FormatTitle("Incoming requests"))
				for _, loan := range incoming {
					fmt.Println(formatLoanRow(loan, selfID))
				}
			}
			if len(outgoing) > 0 {
				fmt.Println(cli.FormatTitle("Outgoing requests"))
				for _, loan := range outgoing {
					fmt.Println(formatLoanRow(loan, selfID))
				}
			}
			if len(settling) > 0 {
				fmt.Println(cli.FormatTitle("Awaiting settlement confirmation"))
				for _, loan := range settling {
					fmt.Println(formatLoanRow(loan, selfID))
				}
			}
			return nil
		},
	}
}

func loanAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <remote-id>",
		Short: "Accept an incoming loan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.AcceptLoan(cmd.Context(), args[0]); err != nil {
				return describeSyncFailure(err)
			}
			fmt.Println(cli.FormatSuccess("Loan accepted"))
			return nil
		},
	}
}

func loanRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <remote-id>",
		Short: "Reject an incoming loan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.RejectLoan(cmd.Context(), args[0]); err != nil {
				return describeSyncFailure(err)
			}
			fmt.Println(cli.FormatSuccess("Loan rejected and removed"))
			return nil
		},
	}
}

func loanSettleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <id>",
		Short: "Mark a loan as repaid",
		Long: `Mark a loan as repaid. Private loans are flagged returned
immediately; synced loans start a settlement handshake the counterparty
confirms with 'udhaar loan confirm'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.MarkReturned(cmd.Context(), args[0]); err != nil {
				return describeSyncFailure(err)
			}
			fmt.Println(cli.FormatSuccess("Loan marked as repaid"))
			return nil
		},
	}
}

func loanConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <remote-id>",
		Short: "Confirm a counterparty's settlement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ConfirmSettle(cmd.Context(), args[0]); err != nil {
				return describeSyncFailure(err)
			}
			fmt.Println(cli.FormatSuccess("Settlement confirmed"))
			return nil
		},
	}
}

func loanDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a loan from this device",
		Long: `Delete a loan from the local collection. A synced loan's shared
row is NOT retracted: the counterparty keeps their copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.DeleteLoan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Loan deleted locally"))
			return nil
		},
	}
}

// formatLoanRow renders one loan as a list line.
func formatLoanRow(loan model.Loan, selfID string) string {
	amount := loan.Amount
	if loan.Direction == model.DirectionTaken {
		amount = amount.Neg()
	}

	badge := ""
	switch {
	case loan.Returned:
		badge = cli.SubtleStyle.Render(" [returned]")
	case loan.Status == model.StatusPending && loan.CreatedByUser(selfID):
		badge = cli.WarningStyle.Render(" [awaiting counterparty]")
	case loan.Status == model.StatusPending:
		badge = cli.WarningStyle.Render(" [pending]")
	case loan.Status == model.StatusSettledPending:
		badge = cli.WarningStyle.Render(" [settling]")
	}
	syncMark := ""
	if loan.IsSynced {
		syncMark = cli.SubtleStyle.Render(" ⇄")
	}

	return fmt.Sprintf("%s  %s  %s%s%s  %s",
		cli.SubtleStyle.Render(loan.Date.Format("2006-01-02")),
		cli.FormatAmount(amount),
		loan.Name,
		syncMark,
		badge,
		cli.SubtleStyle.Render(loan.ID))
}

func directionPreposition(d model.Direction) string {
	if d == model.DirectionGiven {
		return "to"
	}
	return "from"
}

// parseAmount converts a user-entered amount to a decimal.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.NewValidationError("amount", "must be a number")
	}
	return amount, nil
}

// describeSyncFailure translates engine errors into actionable messages.
func describeSyncFailure(err error) error {
	switch {
	case errors.Is(err, common.ErrStaleRow):
		return common.NewUserError("The other party already acted on this loan; run 'udhaar sync' to refresh", err)
	case errors.Is(err, common.ErrMirrorUnavailable):
		return common.NewUserError("Could not reach the backend; try again in a moment", err)
	case errors.Is(err, common.ErrNoRemoteIdentity):
		return common.NewUserError("No backend identity configured; set backend.url and backend.user_id in config", err)
	default:
		return err
	}
}

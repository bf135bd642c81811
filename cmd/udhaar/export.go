package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your data",
		Long: `Export a full backup snapshot (profile plus all collections) as JSON,
or the loan collection as CSV.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			var w io.Writer = os.Stdout
			if out != "" {
				file, createErr := os.Create(out)
				if createErr != nil {
					return fmt.Errorf("failed to create output file: %w", createErr)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			switch format {
			case "json":
				snapshot := export.Snapshot{
					ExportedAt: time.Now(),
					AppVersion: version,
					Profile:    eng.Profile(),
					Loans:      eng.Loans(),
					Income:     eng.Income(),
					Expenses:   eng.Expenses(),
				}
				if err := export.WriteSnapshot(w, snapshot); err != nil {
					return err
				}
			case "csv":
				if err := export.WriteLoansCSV(w, eng.Loans()); err != nil {
					return err
				}
			default:
				return common.NewValidationError("format", "must be json or csv")
			}

			if out != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported to %s", out)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format (json, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/importer"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import a bank OFX/QFX statement",
		Long: `Parse a downloaded bank statement and add its credits as income
entries and its debits as expense entries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			stmt, err := importer.NewParser().Parse(file)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf(
					"Statement parses cleanly: %d income, %d expense entries (dry run, nothing added)",
					len(stmt.Income), len(stmt.Expenses))))
				return nil
			}

			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			var added int
			for _, entry := range stmt.Income {
				if _, err := eng.AddIncome(cmd.Context(), entry.Source, entry.Amount, entry.Note); err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped income %q: %v", entry.Source, err)))
					continue
				}
				added++
			}
			for _, entry := range stmt.Expenses {
				if _, err := eng.AddExpense(cmd.Context(), entry.Category, entry.Amount, entry.Note); err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped expense %q: %v", entry.Category, err)))
					continue
				}
				added++
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d entries from %s", added, args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse only, do not add entries")
	return cmd
}

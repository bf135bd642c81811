package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and manage expense entries",
	}

	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseDeleteCmd())

	return cmd
}

func expenseAddCmd() *cobra.Command {
	var (
		category string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record money spent",
		Args:  cobra.ExactArgs(1),
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

			entry, err := eng.AddExpense(cmd.Context(), category, amount, note)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s expense of %s", entry.Category, entry.Amount)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category (Food, Travel, ...)")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func expenseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expense entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries := eng.Expenses()
			if len(entries) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No expenses recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Expenses"))
			for _, entry := range entries {
				fmt.Printf("%s  %s  %s  %s\n",
					cli.SubtleStyle.Render(entry.Date.Format("2006-01-02")),
					cli.FormatAmount(entry.Amount.Neg()),
					entry.Category,
					cli.SubtleStyle.Render(entry.ID))
			}
			return nil
		},
	}
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.DeleteExpense(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Expense entry deleted"))
			return nil
		},
	}
}

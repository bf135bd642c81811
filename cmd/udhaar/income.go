package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record and manage income entries",
	}

	cmd.AddCommand(incomeAddCmd())
	cmd.AddCommand(incomeListCmd())
	cmd.AddCommand(incomeDeleteCmd())

	return cmd
}

func incomeAddCmd() *cobra.Command {
	var (
		source string
		note   string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record money received",
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

			entry, err := eng.AddIncome(cmd.Context(), source, amount, note)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded income of %s from %s", entry.Amount, entry.Source)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "where the money came from")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func incomeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List income entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries := eng.Income()
			if len(entries) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No income recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Income"))
			for _, entry := range entries {
				fmt.Printf("%s  %s  %s  %s\n",
					cli.SubtleStyle.Render(entry.Date.Format("2006-01-02")),
					cli.FormatAmount(entry.Amount),
					entry.Source,
					cli.SubtleStyle.Render(entry.ID))
			}
			return nil
		},
	}
}

func incomeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an income entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.DeleteIncome(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Income entry deleted"))
			return nil
		},
	}
}

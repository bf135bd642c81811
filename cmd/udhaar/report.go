package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/common"
	"github.com/udhaarapp/udhaar/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Cash flow and top spending categories",
		Long: `Summarize income and expenses for a time window and rank the top
spending categories.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("period", "p", "weekly", "time window (daily, weekly, monthly, all)")
	_ = viper.BindPFlag("report.period", cmd.Flags().Lookup("period"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	period := report.Period(viper.GetString("report.period"))
	if !period.Valid() {
		return common.NewValidationError("period", "must be daily, weekly, monthly or all")
	}

	eng, cleanup, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	now := time.Now()
	income := eng.Income()
	expenses := eng.Expenses()

	stats := report.PeriodStats(income, expenses, period, now)
	top := report.TopCategories(expenses, period, now)

	var b strings.Builder
	fmt.Fprintf(&b, "Income:   %s\n", cli.FormatAmount(stats.TotalIncome))
	fmt.Fprintf(&b, "Expenses: %s\n", cli.FormatAmount(stats.TotalExpense.Neg()))
	fmt.Fprintf(&b, "Net:      %s\n", cli.FormatAmount(stats.Net))
	fmt.Fprintf(&b, "Transactions: %d\n", stats.Transactions)

	if len(top) > 0 {
		b.WriteString("\nTop categories:\n")
		for i, entry := range top {
			fmt.Fprintf(&b, "%d. %-16s %s\n", i+1, entry.Category, entry.Amount)
		}
	} else {
		b.WriteString("\n" + cli.SubtleStyle.Render("No expenses in this period") + "\n")
	}

	title := fmt.Sprintf("Report (%s)", period)
	fmt.Println(cli.RenderBox(title, strings.TrimRight(b.String(), "\n")))
	return nil
}

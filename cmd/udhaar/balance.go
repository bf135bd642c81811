package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/report"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show your loan position per counterparty",
		Long: `Show the net loan balance and a per-counterparty breakdown.
Pending requests are excluded until accepted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			loans := eng.Loans()
			totals := report.Totals(loans)
			groups := report.Groups(loans, eng.UserID())

			headline := "All settled up"
			if totals.Net.Sign() > 0 {
				headline = "You will receive"
			} else if totals.Net.Sign() < 0 {
				headline = "You need to pay"
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Net balance: %s  (%s)\n", cli.FormatAmount(totals.Net), headline)
			fmt.Fprintf(&b, "Given: %s   Taken: %s\n", totals.Given, totals.Taken)

			if len(groups) > 0 {
				b.WriteString("\n")
				for _, g := range groups {
					arrow := "owes you"
					if g.Type == model.DirectionTaken {
						arrow = "you owe"
					}
					fmt.Fprintf(&b, "%-20s %s  %s  (%d loans)\n",
						g.Name,
						cli.FormatAmount(g.NetAmount),
						cli.SubtleStyle.Render(arrow),
						len(g.Loans))
				}
			}

			fmt.Println(cli.RenderBox("Loan balance", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

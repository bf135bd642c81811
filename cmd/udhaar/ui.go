package main

import (
	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/tui"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Long: `Open a full-screen dashboard with tabs for your loan position,
individual loans, cash flow and period reports. Incoming loan requests can be
accepted or rejected from the Loans tab, and 'r' refreshes from the backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), eng)
		},
	}
}

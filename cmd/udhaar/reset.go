package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all loans, income and expenses",
		Long: `Delete every record from the local collections. Your profile and
settings survive, and shared remote rows are not retracted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to wipe data without --force")
			}

			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := eng.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("All records deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm the wipe")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/udhaarapp/udhaar/internal/cli"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull shared loans from the backend",
		Long: `Pull every shared loan row you participate in and reconcile it with
the local collection. New rows from counterparties appear as loans; rows you
already know get their status refreshed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Syncing loans...[reset]"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionThrottle(65*time.Millisecond),
			)

			done := make(chan struct{})
			go func() {
				for {
					select {
					case <-done:
						return
					case <-time.After(80 * time.Millisecond):
						_ = bar.Add(1)
					}
				}
			}()

			result, err := eng.SyncLoans(cmd.Context())
			close(done)
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)

			if err != nil {
				return describeSyncFailure(err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Synced %d shared loans (%d new, %d updated, %d removed)",
				result.Fetched, result.Added, result.Updated, result.Removed)))
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gk_notification_bot/internal/domain/notification"
)

func newMarkerKeyCmd(opts *options) *cobra.Command {
	var dateFlag string
	cmd := &cobra.Command{
		Use:   "marker-key",
		Short: "Print the idempotency marker key for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := opts.date(dateFlag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), notification.MarkerKey(date))
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "date as YYYY-MM-DD (default: today, UTC)")
	return cmd
}

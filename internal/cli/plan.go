package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
)

func newPlanCmd(opts *options) *cobra.Command {
	var dateFlag string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the epoch, slot and seed each pool uses on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := opts.date(dateFlag)
			if err != nil {
				return err
			}
			sel, err := opts.selector()
			if err != nil {
				return err
			}
			plan := sel.Plan(daily.DayIndex(date))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "date:       %s\n", plan.Date)
			fmt.Fprintf(w, "day index:  %d\n", plan.DayIndex)
			fmt.Fprintf(w, "marker key: %s\n", notification.MarkerKey(date))
			printPool(cmd, "quiz", plan.Quiz)
			printPool(cmd, "current affairs", plan.CurrentAffairs)
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "date as YYYY-MM-DD (default: today, UTC)")
	return cmd
}

func printPool(cmd *cobra.Command, name string, p daily.PoolPlan) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "  pool size:  %d\n", p.PoolSize)
	fmt.Fprintf(w, "  epoch days: %d\n", p.EpochDays)
	fmt.Fprintf(w, "  epoch:      %d\n", p.Epoch)
	fmt.Fprintf(w, "  offset:     %d\n", p.Offset)
	fmt.Fprintf(w, "  seed:       %d\n", p.Seed)
}

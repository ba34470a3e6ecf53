package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gk_notification_bot/internal/domain/daily"
)

const maxScheduleDays = 3660

func newScheduleCmd(opts *options) *cobra.Command {
	var (
		from string
		days int
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the questions for a range of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > maxScheduleDays {
				return fmt.Errorf("--days must be between 1 and %d", maxScheduleDays)
			}
			start, err := opts.date(from)
			if err != nil {
				return err
			}
			sel, err := opts.selector()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tDAY\tQUESTIONS\tCURRENT AFFAIRS")
			first := daily.DayIndex(start)
			for d := first; d < first+days; d++ {
				var questions []string
				var headline string
				for _, item := range sel.ForDay(d) {
					if item.Category == daily.CurrentAffairsCategory {
						headline = item.Answer
						continue
					}
					questions = append(questions, item.Question)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", daily.DateKey(daily.DateForIndex(d)), d, strings.Join(questions, " | "), headline)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date as YYYY-MM-DD (default: today, UTC)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to print")
	return cmd
}

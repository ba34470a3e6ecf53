package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"gk_notification_bot/internal/domain/daily"
)

type todayOutput struct {
	Date     string           `json:"date"`
	DayIndex int              `json:"day_index"`
	Items    []daily.QuizItem `json:"items"`
}

func newTodayCmd(opts *options) *cobra.Command {
	var (
		dateFlag   string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the items for a date",
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
			out := todayOutput{
				Date:     daily.DateKey(date),
				DayIndex: daily.DayIndex(date),
				Items:    sel.ForDate(date),
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(w, "%s (day %d)\n", out.Date, out.DayIndex)
			for i, item := range out.Items {
				if item.Category == daily.CurrentAffairsCategory {
					fmt.Fprintf(w, "%d. [%s] %s\n", i+1, item.Category, item.Answer)
					continue
				}
				fmt.Fprintf(w, "%d. [%s] %s\n   Answer: %s\n", i+1, item.Category, item.Question, item.Answer)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "date as YYYY-MM-DD (default: today, UTC)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

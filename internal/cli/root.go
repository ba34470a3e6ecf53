// Package cli implements gkctl, an offline inspector for the daily content schedule.
// Every command is a pure function of the date and the pools; nothing touches
// Telegram or the marker store.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gk_notification_bot/internal/domain/content"
	"gk_notification_bot/internal/domain/daily"
)

type options struct {
	poolsFile string
	now       func() time.Time
}

// NewRootCmd builds the gkctl command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&options{now: time.Now}, version)
}

func newRootCmd(opts *options, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "gkctl",
		Short: "Inspect the daily GK schedule",
		Long: `gkctl shows what the bot sends on a given day and why.

Example usage:
  gkctl today                          # today's items
  gkctl today --date 2025-06-01 --json
  gkctl schedule --from 2025-06-01 --days 14
  gkctl plan --date 2025-06-01         # epoch, slot and seed per pool
  gkctl marker-key                     # idempotency key for today`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.poolsFile, "pools", "", "YAML pools file (default: built-in pools)")

	root.AddCommand(
		newTodayCmd(opts),
		newScheduleCmd(opts),
		newPlanCmd(opts),
		newMarkerKeyCmd(opts),
	)
	return root
}

func (o *options) selector() (*daily.Selector, error) {
	if o.poolsFile == "" {
		return content.NewSelector()
	}
	data, err := os.ReadFile(o.poolsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read pools file: %w", err)
	}
	p, err := content.Parse(data)
	if err != nil {
		return nil, err
	}
	return daily.NewSelector(p.Quiz, p.CurrentAffairs)
}

// date resolves a --date value, defaulting to the current UTC date.
func (o *options) date(raw string) (time.Time, error) {
	if raw == "" {
		return daily.UTCDay(o.now()), nil
	}
	d, err := daily.ParseDateKey(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
	"gk_notification_bot/internal/infra/metrics"
)

// DefaultPace separates consecutive notifications of one cycle.
const DefaultPace = 3 * time.Second

// Dispatcher runs the once-per-day notification cycle.
type Dispatcher interface {
	Dispatch(ctx context.Context, trigger notification.Trigger) (*notification.Cycle, error)
}

// ContentSource yields the ordered items for a date.
type ContentSource interface {
	ForDate(date time.Time) []daily.QuizItem
}

// Notifier hands one notification to the host for display.
type Notifier interface {
	Display(ctx context.Context, n notification.Notification) error
}

// Waiter blocks for d or until ctx is done.
type Waiter func(ctx context.Context, d time.Duration) error

// SleepWaiter is the production Waiter.
func SleepWaiter(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DailyDispatcher implements Dispatcher on top of a MarkerStore.
//
// A cycle writes the day's marker before the first notification is shown, so a crash
// mid-cycle can lose a day but never repeats one. Concurrent triggers inside the
// process share a single cycle; across processes MarkIfAbsent decides the winner.
type DailyDispatcher struct {
	content  ContentSource
	markers  notification.MarkerStore
	notifier Notifier
	logger   *logrus.Entry
	clock    func() time.Time
	wait     Waiter
	pace     time.Duration
	inflight singleflight.Group
}

type DispatcherOption func(*DailyDispatcher)

func WithClock(clock func() time.Time) DispatcherOption {
	return func(d *DailyDispatcher) { d.clock = clock }
}

func WithWaiter(w Waiter) DispatcherOption {
	return func(d *DailyDispatcher) { d.wait = w }
}

func WithPace(p time.Duration) DispatcherOption {
	return func(d *DailyDispatcher) { d.pace = p }
}

func NewDailyDispatcher(
	content ContentSource,
	markers notification.MarkerStore,
	notifier Notifier,
	logger *logrus.Entry,
	opts ...DispatcherOption,
) *DailyDispatcher {
	d := &DailyDispatcher{
		content:  content,
		markers:  markers,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
		wait:     SleepWaiter,
		pace:     DefaultPace,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs today's cycle unless it already ran. Callers racing on the same date
// within this process receive the same Cycle.
func (d *DailyDispatcher) Dispatch(ctx context.Context, trigger notification.Trigger) (*notification.Cycle, error) {
	now := d.clock()
	key := notification.MarkerKey(now)

	v, err, shared := d.inflight.Do(key, func() (interface{}, error) {
		return d.run(ctx, now, key, trigger)
	})
	if shared {
		d.logger.WithFields(logrus.Fields{"marker_key": key, "trigger": trigger}).Debug("Joined in-flight dispatch cycle")
	}
	cycle, _ := v.(*notification.Cycle)
	return cycle, err
}

func (d *DailyDispatcher) run(ctx context.Context, now time.Time, key string, trigger notification.Trigger) (*notification.Cycle, error) {
	cycle := &notification.Cycle{
		RunID:     uuid.NewString(),
		Date:      daily.DateKey(now),
		MarkerKey: key,
		Trigger:   trigger,
		State:     notification.StateIdle,
		StartedAt: now,
	}
	log := d.logger.WithFields(logrus.Fields{
		"run_id":  cycle.RunID,
		"date":    cycle.Date,
		"trigger": trigger,
	})
	defer func() {
		cycle.EndedAt = d.clock()
		metrics.RecordCycle(string(trigger), string(cycle.Outcome), cycle.EndedAt.Sub(cycle.StartedAt).Seconds())
		log.WithFields(logrus.Fields{
			"outcome": cycle.Outcome,
			"sent":    cycle.Sent,
			"failed":  cycle.Failed,
		}).Info("Dispatch cycle finished")
	}()

	d.transition(log, cycle, notification.StateChecking)

	exists, err := d.markers.Exists(ctx, key)
	if err != nil {
		// Unknown is not "absent": dispatching now could repeat the day.
		metrics.RecordMarkerError("exists")
		log.WithError(err).Error("Failed to read notification marker, aborting cycle")
		return d.finish(log, cycle, notification.OutcomeAborted), fmt.Errorf("failed to check marker %s: %w", key, err)
	}
	if exists {
		log.Info("Notifications already dispatched for this date")
		return d.finish(log, cycle, notification.OutcomeAlreadyNotified), nil
	}

	marked, err := d.markers.MarkIfAbsent(ctx, key)
	if err != nil {
		metrics.RecordMarkerError("mark")
		log.WithError(err).Error("Failed to write notification marker, aborting cycle")
		return d.finish(log, cycle, notification.OutcomeAborted), fmt.Errorf("failed to write marker %s: %w", key, err)
	}
	if !marked {
		log.Info("Another dispatcher claimed this date first")
		return d.finish(log, cycle, notification.OutcomeLostRace), nil
	}

	notes := notification.Build(now, d.content.ForDate(now))
	d.transition(log, cycle, notification.StateDispatching)
	log.WithField("items", len(notes)).Info("Dispatching daily notifications")

	start := d.clock()
	for i, n := range notes {
		// item i is due i*pace after the cycle started, whatever earlier displays cost
		if i > 0 {
			due := time.Duration(i)*d.pace - d.clock().Sub(start)
			if err := d.wait(ctx, due); err != nil {
				log.WithError(err).WithField("remaining", len(notes)-i).Warn("Dispatch interrupted")
				d.finish(log, cycle, notification.OutcomeDispatched)
				return cycle, fmt.Errorf("dispatch interrupted after %d of %d notifications: %w", i, len(notes), err)
			}
		}

		itemLog := log.WithFields(logrus.Fields{"tag": n.Tag, "category": n.Data.Category})
		if err := d.notifier.Display(ctx, n); err != nil {
			cycle.Failed++
			metrics.RecordNotification(false)
			itemLog.WithError(err).Error("Failed to display notification")
			continue
		}
		cycle.Sent++
		metrics.RecordNotification(true)
		itemLog.Debug("Notification displayed")
	}

	return d.finish(log, cycle, notification.OutcomeDispatched), nil
}

func (d *DailyDispatcher) finish(log *logrus.Entry, cycle *notification.Cycle, outcome notification.Outcome) *notification.Cycle {
	cycle.Outcome = outcome
	d.transition(log, cycle, notification.StateDone)
	return cycle
}

func (d *DailyDispatcher) transition(log *logrus.Entry, cycle *notification.Cycle, next notification.State) {
	if !cycle.State.CanTransition(next) {
		log.Errorf("Invalid dispatch state transition %s -> %s", cycle.State, next)
	}
	log.Debugf("Dispatch state %s -> %s", cycle.State, next)
	cycle.State = next
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gk_notification_bot/internal/app"
	"gk_notification_bot/internal/domain/notification"
)

// Config controls which jobs the scheduler registers.
type Config struct {
	Location        *time.Location
	DailySpec       string // e.g. "0 9 * * *"
	WakeupSpec      string // optional, e.g. "0 */6 * * *"; empty disables it
	RunOnStart      bool
	DispatchTimeout time.Duration
}

// NotificationScheduler triggers the daily dispatch from cron. Every trigger goes
// through the dispatcher, which decides whether anything is actually sent.
type NotificationScheduler struct {
	cronEngine *cron.Cron
	dispatcher app.Dispatcher
	logger     *logrus.Entry
	cfg        Config
	entries    map[notification.Trigger]cron.EntryID
}

func NewNotificationScheduler(dispatcher app.Dispatcher, logger *logrus.Entry, cfg Config) (*NotificationScheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = 2 * time.Minute
	}

	s := &NotificationScheduler{
		cronEngine: cron.New(cron.WithLocation(cfg.Location)),
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		entries:    make(map[notification.Trigger]cron.EntryID),
	}

	if err := s.addJob(notification.TriggerSchedule, cfg.DailySpec); err != nil {
		return nil, err
	}
	if cfg.WakeupSpec != "" {
		if err := s.addJob(notification.TriggerWakeup, cfg.WakeupSpec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *NotificationScheduler) addJob(trigger notification.Trigger, spec string) error {
	id, err := s.cronEngine.AddFunc(spec, func() {
		s.logger.WithField("trigger", trigger).Info("Cron job triggered")
		s.Trigger(context.Background(), trigger)
	})
	if err != nil {
		return fmt.Errorf("could not add %s cron job %q: %w", trigger, spec, err)
	}
	s.entries[trigger] = id
	return nil
}

// Trigger runs one dispatch cycle bounded by the dispatch timeout.
func (s *NotificationScheduler) Trigger(ctx context.Context, trigger notification.Trigger) *notification.Cycle {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	cycle, err := s.dispatcher.Dispatch(ctx, trigger)
	if err != nil {
		s.logger.WithError(err).WithField("trigger", trigger).Error("Dispatch cycle failed")
	}
	return cycle
}

// Start begins running jobs. With RunOnStart a catch-up cycle runs first, in the
// background, so a process that was down at the scheduled time still sends today.
func (s *NotificationScheduler) Start() {
	s.logger.Info("Starting notification scheduler...")
	if s.cfg.RunOnStart {
		go s.Trigger(context.Background(), notification.TriggerStartup)
	}
	s.cronEngine.Start()
	for trigger, next := range s.NextRuns() {
		s.logger.WithFields(logrus.Fields{"trigger": trigger, "next_run": next}).Info("Scheduled job")
	}
}

// NextRuns reports the next activation of each registered job.
func (s *NotificationScheduler) NextRuns() map[notification.Trigger]time.Time {
	out := make(map[notification.Trigger]time.Time, len(s.entries))
	for trigger, id := range s.entries {
		entry := s.cronEngine.Entry(id)
		next := entry.Next
		if next.IsZero() && entry.Schedule != nil {
			next = entry.Schedule.Next(time.Now().In(s.cfg.Location))
		}
		out[trigger] = next
	}
	return out
}

// Stop prevents new runs and waits for a running cycle to finish.
func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}

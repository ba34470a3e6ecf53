package app

import (
	"fmt"
	"time"

	"gk_notification_bot/internal/domain/daily"
	"gk_notification_bot/internal/domain/notification"
)

// ContentService answers "what is the content for this date" for every surface of the
// bot: the dispatcher, the /today command, answer buttons and the HTTP API.
type ContentService struct {
	selector *daily.Selector
	clock    func() time.Time
}

func NewContentService(selector *daily.Selector, clock func() time.Time) *ContentService {
	if clock == nil {
		clock = time.Now
	}
	return &ContentService{selector: selector, clock: clock}
}

// Today returns the current UTC date and its content.
func (s *ContentService) Today() (time.Time, []daily.QuizItem) {
	today := daily.UTCDay(s.clock())
	return today, s.selector.ForDate(today)
}

func (s *ContentService) ForDate(date time.Time) []daily.QuizItem {
	return s.selector.ForDate(date)
}

func (s *ContentService) Plan(date time.Time) daily.DayPlan {
	return s.selector.Plan(daily.DayIndex(date))
}

// Notifications returns the payloads the dispatcher would emit for date.
func (s *ContentService) Notifications(date time.Time) []notification.Notification {
	return notification.Build(date, s.selector.ForDate(date))
}

// RevealAnswer recomputes the notification behind tag and returns its data.
// Nothing is looked up from storage; the date alone determines the content.
func (s *ContentService) RevealAnswer(tag string) (notification.Data, error) {
	ordinal, date, err := notification.ParseTag(tag)
	if err != nil {
		return notification.Data{}, err
	}
	notes := s.Notifications(date)
	if ordinal > len(notes) {
		return notification.Data{}, fmt.Errorf("notification %d does not exist for %s", ordinal, daily.DateKey(date))
	}
	return notes[ordinal-1].Data, nil
}

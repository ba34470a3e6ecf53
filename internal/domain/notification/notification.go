package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gk_notification_bot/internal/domain/daily"
)

const tagPrefix = "gk-"

// Data is the structured content carried by a Notification.
type Data struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Notification is a single message handed to the host for display.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	Data  Data   `json:"data"`
}

// Tag identifies the ordinal-th (1-based) notification of date. Hosts that replace
// notifications by tag therefore never collapse two items or two days.
func Tag(ordinal int, date time.Time) string {
	return fmt.Sprintf("%s%d-%s", tagPrefix, ordinal, daily.DateKey(date))
}

// ParseTag splits a tag produced by Tag.
func ParseTag(tag string) (ordinal int, date time.Time, err error) {
	rest, ok := strings.CutPrefix(tag, tagPrefix)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid notification tag %q", tag)
	}
	num, dateStr, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, time.Time{}, fmt.Errorf("invalid notification tag %q", tag)
	}
	ordinal, err = strconv.Atoi(num)
	if err != nil || ordinal < 1 {
		return 0, time.Time{}, fmt.Errorf("invalid ordinal in notification tag %q", tag)
	}
	date, err = daily.ParseDateKey(dateStr)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid date in notification tag %q: %w", tag, err)
	}
	return ordinal, date, nil
}

// Build turns the day's items into notifications, preserving their order.
// Current-affairs items carry their headline as the body.
func Build(date time.Time, items []daily.QuizItem) []Notification {
	out := make([]Notification, len(items))
	for i, item := range items {
		body := item.Question
		if item.Category == daily.CurrentAffairsCategory {
			// the headline is the content, there is nothing to reveal
			body = item.Answer
		}
		out[i] = Notification{
			Title: fmt.Sprintf("GK %d/%d · %s", i+1, len(items), item.Category),
			Body:  body,
			Tag:   Tag(i+1, date),
			Data: Data{
				Category: item.Category,
				Question: item.Question,
				Answer:   item.Answer,
			},
		}
	}
	return out
}

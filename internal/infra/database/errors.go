package database

import (
	"errors"

	"github.com/lib/pq"

	"gk_notification_bot/internal/domain/subscriber"
)

// Repository errors are the domain sentinels so callers can match them with errors.Is.
var (
	ErrSubscriberNotFound = subscriber.ErrNotFound
	ErrDuplicateChatID    = subscriber.ErrDuplicateChatID
)

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

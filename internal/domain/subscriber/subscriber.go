package subscriber

import (
	"database/sql"
	"time"
)

// Subscriber is a Telegram chat that receives the daily GK notifications.
type Subscriber struct {
	ID        int64
	ChatID    int64
	FirstName string
	LastName  sql.NullString // optional
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName joins first and last name.
func (s *Subscriber) DisplayName() string {
	if s.LastName.Valid && s.LastName.String != "" {
		return s.FirstName + " " + s.LastName.String
	}
	return s.FirstName
}

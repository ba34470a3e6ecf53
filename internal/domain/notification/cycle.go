package notification

import "time"

// Cycle records one run of the dispatcher for a calendar date.
type Cycle struct {
	RunID     string    `json:"run_id"`
	Date      string    `json:"date"` // YYYY-MM-DD, UTC
	MarkerKey string    `json:"marker_key"`
	Trigger   Trigger   `json:"trigger"`
	State     State     `json:"state"`
	Outcome   Outcome   `json:"outcome"`
	Sent      int       `json:"sent"`   // notifications displayed
	Failed    int       `json:"failed"` // notifications whose display failed
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

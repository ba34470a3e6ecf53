package notification

import (
	"context"
	"time"

	"gk_notification_bot/internal/domain/daily"
)

// MarkerPrefix prefixes every idempotency marker key.
const MarkerPrefix = "gk_notified_"

// MarkerKey returns the idempotency key for date's UTC calendar day,
// e.g. "gk_notified_2025-06-01".
func MarkerKey(date time.Time) string {
	return MarkerPrefix + daily.DateKey(date)
}

// MarkerStore persists presence-only idempotency markers.
//
// Implementations never overwrite a key that is already present. Markers are never
// deleted by the application.
type MarkerStore interface {
	// Exists reports whether key has been marked.
	Exists(ctx context.Context, key string) (bool, error)
	// MarkIfAbsent atomically creates key. It returns false when key was already present.
	MarkIfAbsent(ctx context.Context, key string) (bool, error)
}

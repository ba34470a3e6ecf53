package database

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMarkerStore keeps idempotency markers in the notification_markers table.
type PostgresMarkerStore struct {
	db *sql.DB
}

func NewPostgresMarkerStore(db *sql.DB) *PostgresMarkerStore {
	return &PostgresMarkerStore{db: db}
}

func (s *PostgresMarkerStore) Exists(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM notification_markers WHERE marker_key = $1)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking notification marker %s: %w", key, err)
	}
	return exists, nil
}

// MarkIfAbsent inserts key unless it is already present. The primary key makes the
// insert a compare-and-set across processes.
func (s *PostgresMarkerStore) MarkIfAbsent(ctx context.Context, key string) (bool, error) {
	query := `INSERT INTO notification_markers (marker_key) VALUES ($1)
               ON CONFLICT (marker_key) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("error writing notification marker %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected for marker %s: %w", key, err)
	}
	return n == 1, nil
}

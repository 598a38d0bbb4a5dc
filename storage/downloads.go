// Package storage persists delivery history in Postgres.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Terminal states of a delivery attempt as stored in the downloads table.
const (
	StatusDelivered      = "delivered"
	StatusDownloadFailed = "download_failed"
	StatusSendFailed     = "send_failed"
)

// Download is one row of delivery history.
type Download struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Query     string    `db:"query"`
	TrackID   string    `db:"track_id"`
	Title     string    `db:"title"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// StatusCount aggregates history rows per terminal status.
type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

// Downloads is the repository over the downloads table.
type Downloads struct {
	db *sqlx.DB
}

// NewDownloads wraps the shared database handle.
func NewDownloads(db *sqlx.DB) *Downloads {
	return &Downloads{db: db}
}

// Insert records the outcome of a delivery attempt.
func (r *Downloads) Insert(ctx context.Context, rec Download) error {
	if strings.TrimSpace(rec.TrackID) == "" {
		return fmt.Errorf("storage: track id required")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO downloads (user_id, query, track_id, title, status)
VALUES ($1, $2, $3, $4, $5)
`, rec.UserID, rec.Query, rec.TrackID, rec.Title, rec.Status)
	if err != nil {
		return fmt.Errorf("storage: insert download: %w", err)
	}
	return nil
}

// RecentByUser returns the user's latest history rows, newest first.
func (r *Downloads) RecentByUser(ctx context.Context, userID int64, limit int) ([]Download, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Download
	err := r.db.SelectContext(ctx, &out, `
SELECT id, user_id, query, track_id, title, status, created_at
FROM downloads
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: recent downloads: %w", err)
	}
	return out, nil
}

// CountByStatus aggregates all history rows per terminal status.
func (r *Downloads) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.SelectContext(ctx, &out, `
SELECT status, COUNT(*) AS count
FROM downloads
GROUP BY status
ORDER BY status
`)
	if err != nil {
		return nil, fmt.Errorf("storage: count by status: %w", err)
	}
	return out, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Notification struct {
	ID             int64  `json:"id"`
	DedupKey       string `json:"dedup_key"`
	Template       string `json:"template"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Status         string `json:"status"` // queued | sent | failed
	DeliveryID     string `json:"delivery_id,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	Attempts       int    `json:"attempts"`
	CreatedAt      string `json:"created_at"`
	SentAt         string `json:"sent_at,omitempty"`
}

const notificationCols = `id, dedup_key, template, recipient_email, recipient_name,
subject, body, status, delivery_id, error_message, attempts, created_at, sent_at`

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var n Notification
	var deliveryID, errMsg, sentAt sql.NullString
	err := row.Scan(
		&n.ID, &n.DedupKey, &n.Template, &n.RecipientEmail, &n.RecipientName,
		&n.Subject, &n.Body, &n.Status, &deliveryID, &errMsg, &n.Attempts,
		&n.CreatedAt, &sentAt,
	)
	if err != nil {
		return Notification{}, err
	}
	n.DeliveryID = textOrEmpty(deliveryID)
	n.ErrorMessage = textOrEmpty(errMsg)
	n.SentAt = textOrEmpty(sentAt)
	return n, nil
}

// UpsertNotification records a dispatch attempt. The dedup key makes retries
// idempotent: a second attempt for the same transition reuses the existing
// audit row instead of inserting another.
func UpsertNotification(ctx context.Context, db *sql.DB, n Notification) (Notification, error) {
	now := nowUTC()
	_, err := db.ExecContext(ctx, `
INSERT INTO notifications(dedup_key, template, recipient_email, recipient_name,
  subject, body, status, attempts, created_at)
VALUES(?,?,?,?,?,?,'queued',0,?)
ON CONFLICT(dedup_key) DO UPDATE SET
  subject = excluded.subject,
  body = excluded.body;`,
		n.DedupKey, n.Template, n.RecipientEmail, n.RecipientName,
		n.Subject, n.Body, now)
	if err != nil {
		return Notification{}, fmt.Errorf("upsert notification: %w", err)
	}
	return FindNotificationByDedupKey(ctx, db, n.DedupKey)
}

func FindNotificationByDedupKey(ctx context.Context, db *sql.DB, key string) (Notification, error) {
	row := db.QueryRowContext(ctx, `SELECT `+notificationCols+` FROM notifications WHERE dedup_key = ?;`, key)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Notification{}, sql.ErrNoRows
	}
	if err != nil {
		return Notification{}, fmt.Errorf("find notification: %w", err)
	}
	return n, nil
}

func MarkNotificationSent(ctx context.Context, db *sql.DB, dedupKey, deliveryID string) error {
	_, err := db.ExecContext(ctx, `
UPDATE notifications
SET status = 'sent', delivery_id = ?, error_message = NULL,
    attempts = attempts + 1, sent_at = ?
WHERE dedup_key = ?;`, deliveryID, nowUTC(), dedupKey)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

func MarkNotificationFailed(ctx context.Context, db *sql.DB, dedupKey, errMsg string) error {
	_, err := db.ExecContext(ctx, `
UPDATE notifications
SET status = 'failed', error_message = ?, attempts = attempts + 1
WHERE dedup_key = ?;`, errMsg, dedupKey)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

// ListUndeliveredNotifications feeds the background resend loop.
func ListUndeliveredNotifications(ctx context.Context, db *sql.DB, limit int) ([]Notification, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+notificationCols+` FROM notifications
WHERE status IN ('queued', 'failed')
ORDER BY id ASC
LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list undelivered notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

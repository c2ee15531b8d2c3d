package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type Upload struct {
	Key         string `json:"key"`
	Kind        string `json:"kind"` // resume | portfolio
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Bytes       []byte `json:"-"`
	CreatedAt   string `json:"created_at"`
}

func uploadKey(kind, filename string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte(filename))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SaveUpload stores a file blob and returns its key. Uploads are append-only;
// re-saving identical content is a no-op that returns the same key, so a
// retried application never leaves a dangling reference.
func SaveUpload(ctx context.Context, db *sql.DB, kind, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("save upload: empty file")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := uploadKey(kind, filename, data)

	_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO uploads(key, kind, filename, content_type, bytes, created_at)
VALUES(?,?,?,?,?,?);`, key, kind, filename, contentType, data, nowUTC())
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return key, nil
}

func GetUpload(ctx context.Context, db *sql.DB, key string) (Upload, error) {
	var u Upload
	err := db.QueryRowContext(ctx, `
SELECT key, kind, filename, content_type, bytes, created_at
FROM uploads WHERE key = ?;`, key).Scan(
		&u.Key, &u.Kind, &u.Filename, &u.ContentType, &u.Bytes, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Upload{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Upload{}, fmt.Errorf("get upload: %w", err)
	}
	return u, nil
}

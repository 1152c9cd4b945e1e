// Package history keeps a local SQLite journal of uploads made from this
// machine. It is write-mostly and read only by the --history listing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

// timeLayout is fixed width so uploaded_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements app.UploadHistory.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS uploads (
  id TEXT PRIMARY KEY,
  image_id TEXT NOT NULL,
  description TEXT NOT NULL,
  uploaded_by TEXT NOT NULL,
  gallery_url TEXT,
  file_name TEXT,
  uploaded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_uploads_uploaded_at ON uploads(uploaded_at DESC);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Record appends an upload. Missing ID and timestamp are filled in.
func (s *Store) Record(ctx context.Context, u domain.Upload) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO uploads (id, image_id, description, uploaded_by, gallery_url, file_name, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.ImageID, u.Description, u.UploadedBy, u.GalleryURL, u.FileName,
		u.UploadedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

// Recent returns up to limit uploads, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.Upload, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, image_id, description, uploaded_by, COALESCE(gallery_url, ''), COALESCE(file_name, ''), uploaded_at
FROM uploads
ORDER BY uploaded_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var out []domain.Upload
	for rows.Next() {
		var (
			u  domain.Upload
			at string
		)
		if err := rows.Scan(&u.ID, &u.ImageID, &u.Description, &u.UploadedBy, &u.GalleryURL, &u.FileName, &at); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		u.UploadedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse uploaded_at: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return out, nil
}

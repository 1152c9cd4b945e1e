package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/CrestNiraj12/terminalgallery/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sub", "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"img-1", "img-2", "img-3"} {
		err := s.Record(ctx, domain.Upload{
			ImageID:     id,
			Description: "desc " + id,
			UploadedBy:  "me",
			UploadedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
	if got[0].ImageID != "img-3" || got[1].ImageID != "img-2" {
		t.Fatalf("expected newest first, got %q then %q", got[0].ImageID, got[1].ImageID)
	}
	if got[0].ID == "" {
		t.Fatalf("expected generated journal id")
	}
	if !got[0].UploadedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("timestamp roundtrip mismatch: %v", got[0].UploadedAt)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s.Record(ctx, domain.Upload{ImageID: "x", Description: "d", UploadedBy: "u"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].ImageID != "x" {
		t.Fatalf("expected persisted row, got %#v", got)
	}
}

func TestRecent_OrdersWithinTheSameSecond(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	whole := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	uploads := []domain.Upload{
		{ImageID: "older", Description: "d", UploadedBy: "me", UploadedAt: whole},
		{ImageID: "newer", Description: "d", UploadedBy: "me", UploadedAt: whole.Add(500 * time.Millisecond)},
	}
	for _, u := range uploads {
		if err := s.Record(ctx, u); err != nil {
			t.Fatalf("record %s: %v", u.ImageID, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].ImageID != "newer" || got[1].ImageID != "older" {
		t.Fatalf("expected newer then older, got %#v", got)
	}
	if !got[1].UploadedAt.Equal(whole) {
		t.Fatalf("whole-second timestamp roundtrip mismatch: %v", got[1].UploadedAt)
	}
}

package notify

import (
	"context"
	"testing"
	"time"

	"talentflow-engine/internal/config"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/testsupport"
)

func TestWorkerTickRedeliversPending(t *testing.T) {
	db := testsupport.NewStore(t)
	var cfg config.Config // mail disabled, noop backend
	svc := NewService(db, cfg, "")
	ctx := context.Background()

	// Two rows the foreground path left behind.
	for _, key := range []string{"leader_request:1", "client_invitation:2"} {
		if _, err := store.UpsertNotification(ctx, db.Pool, store.Notification{
			DedupKey: key, Template: "leader_request",
			RecipientEmail: "lee@acme.test", RecipientName: "Lee",
			Subject: "s", Body: "b",
		}); err != nil {
			t.Fatal(err)
		}
	}

	w := &Worker{DB: db, Service: svc, Interval: time.Minute, Batch: 10}
	if err := w.tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	pending, err := store.ListUndeliveredNotifications(ctx, db.Pool, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("undelivered after tick = %d, want 0", len(pending))
	}
}

func TestWorkerTickEmptyQueueIsQuiet(t *testing.T) {
	db := testsupport.NewStore(t)
	w := &Worker{DB: db, Service: NewService(db, config.Config{}, ""), Interval: time.Minute, Batch: 10}
	if err := w.tick(context.Background()); err != nil {
		t.Fatalf("tick on empty queue: %v", err)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"talentflow-engine/internal/config"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/testsupport"
)

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func newBackend(t *testing.T) (*httptest.Server, *atomic.Bool, *atomic.Int32) {
	t.Helper()
	var failing atomic.Bool
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req mailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		received.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-123"})
	}))
	t.Cleanup(srv.Close)
	return srv, &failing, &received
}

func mailConfig(endpoint string) config.Config {
	var cfg config.Config
	cfg.Mail.Enabled = true
	cfg.Mail.Endpoint = endpoint
	cfg.Mail.FromAddress = "no-reply@talentflow.test"
	cfg.Mail.AdminEmail = "admin@talentflow.test"
	cfg.Mail.RequestTimeoutSeconds = 5
	return cfg
}

func notificationCount(t *testing.T, db *store.DB) int {
	t.Helper()
	var n int
	if err := db.Pool.QueryRow(`SELECT COUNT(*) FROM notifications;`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestMailServiceRecordsAndSends(t *testing.T) {
	db := testsupport.NewStore(t)
	srv, _, received := newBackend(t)
	svc := NewService(db, mailConfig(srv.URL), "test-key")
	ctx := context.Background()

	lead := store.Lead{ID: 7, ContactName: "Dana", ContactEmail: "dana@acme.test", CompanyName: "Acme", Intent: "hiring"}
	if err := svc.SendLeadReceived(ctx, lead); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received.Load() != 1 {
		t.Fatalf("backend received %d requests, want 1", received.Load())
	}

	n, err := store.FindNotificationByDedupKey(ctx, db.Pool, "lead_received:7")
	if err != nil {
		t.Fatalf("find audit row: %v", err)
	}
	if n.Status != "sent" || n.DeliveryID != "msg-123" || n.Attempts != 1 {
		t.Fatalf("audit row = %+v", n)
	}
	if n.SentAt == "" {
		t.Error("sent_at not stamped")
	}

	// A repeated send reuses the audit row, never duplicating it.
	if err := svc.SendLeadReceived(ctx, lead); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if got := notificationCount(t, db); got != 1 {
		t.Fatalf("notification rows = %d, want 1", got)
	}
}

func TestMailServiceFailureAndRetry(t *testing.T) {
	db := testsupport.NewStore(t)
	srv, failing, _ := newBackend(t)
	svc := NewService(db, mailConfig(srv.URL), "test-key")
	ctx := context.Background()

	failing.Store(true)
	lead := store.Lead{ID: 3, ContactName: "Sam", ContactEmail: "sam@x.test", CompanyName: "X", Intent: "conversation"}
	err := svc.SendLeadReceived(ctx, lead)
	if hireerr.KindOf(err) != hireerr.KindDispatch {
		t.Fatalf("err = %v, want dispatch", err)
	}

	n, err2 := store.FindNotificationByDedupKey(ctx, db.Pool, "lead_received:3")
	if err2 != nil {
		t.Fatal(err2)
	}
	if n.Status != "failed" || n.Attempts != 1 || n.ErrorMessage == "" {
		t.Fatalf("audit row after failure = %+v", n)
	}

	// The row is picked up as undelivered and a redelivery succeeds.
	pending, err2 := store.ListUndeliveredNotifications(ctx, db.Pool, 10)
	if err2 != nil {
		t.Fatal(err2)
	}
	if len(pending) != 1 {
		t.Fatalf("undelivered = %d, want 1", len(pending))
	}

	failing.Store(false)
	if err := svc.Redeliver(ctx, pending[0]); err != nil {
		t.Fatalf("redeliver: %v", err)
	}
	n, err2 = store.FindNotificationByDedupKey(ctx, db.Pool, "lead_received:3")
	if err2 != nil {
		t.Fatal(err2)
	}
	if n.Status != "sent" || n.Attempts != 2 {
		t.Fatalf("audit row after retry = %+v", n)
	}

	pending, err2 = store.ListUndeliveredNotifications(ctx, db.Pool, 10)
	if err2 != nil {
		t.Fatal(err2)
	}
	if len(pending) != 0 {
		t.Fatalf("undelivered after retry = %d, want 0", len(pending))
	}
}

func TestNoopServiceMarksSent(t *testing.T) {
	db := testsupport.NewStore(t)
	var cfg config.Config // mail disabled
	svc := NewService(db, cfg, "")
	ctx := context.Background()

	pos := store.Position{ID: 11, PositionName: "PM", PositionCode: "pm-abc", LeaderName: "Lee", LeaderEmail: "lee@acme.test"}
	if err := svc.SendLeaderRequest(ctx, pos, "http://x/leader/positions/11"); err != nil {
		t.Fatalf("noop send: %v", err)
	}
	n, err := store.FindNotificationByDedupKey(ctx, db.Pool, "leader_request:11")
	if err != nil {
		t.Fatal(err)
	}
	if n.Status != "sent" || !strings.HasPrefix(n.DeliveryID, "noop-") {
		t.Fatalf("audit row = %+v", n)
	}
	if n.Subject == "" || n.Body == "" {
		t.Error("noop row missing rendered subject/body")
	}
}

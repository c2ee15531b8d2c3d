// Package testsupport holds shared test fixtures: an in-memory store and a
// recording mail service.
package testsupport

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
)

// NewStore opens a migrated in-memory database. The pool is capped at one
// connection, so the memory database lives until cleanup.
func NewStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Recorder is a notify.Service that remembers what was sent and can be told
// to fail specific templates.
type Recorder struct {
	mu    sync.Mutex
	sent  []string
	fails map[string]bool
}

func NewRecorder() *Recorder {
	return &Recorder{fails: make(map[string]bool)}
}

// FailTemplate makes every send of a template fail until cleared.
func (r *Recorder) FailTemplate(template string, fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[template] = fail
}

// Sent returns "template->recipient" entries in send order.
func (r *Recorder) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	copy(out, r.sent)
	return out
}

// CountSent counts deliveries of one template.
func (r *Recorder) CountSent(template string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if len(s) >= len(template) && s[:len(template)] == template {
			n++
		}
	}
	return n
}

func (r *Recorder) send(template, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails[template] {
		return &hireerr.DispatchError{
			Template: template, Recipient: recipient,
			Err: fmt.Errorf("recorder: induced failure"),
		}
	}
	r.sent = append(r.sent, template+"->"+recipient)
	return nil
}

func (r *Recorder) SendLeadReceived(_ context.Context, l store.Lead) error {
	return r.send("lead_received", l.ContactEmail)
}

func (r *Recorder) SendAdminLeadAlert(_ context.Context, l store.Lead) error {
	return r.send("admin_lead_alert", "admin")
}

func (r *Recorder) SendClientInvitation(_ context.Context, c store.Company, _ string) error {
	return r.send("client_invitation", c.PrimaryContactEmail)
}

func (r *Recorder) SendLeaderRequest(_ context.Context, p store.Position, _ string) error {
	return r.send("leader_request", p.LeaderEmail)
}

func (r *Recorder) SendPositionPublished(_ context.Context, _ store.Position, to, _, _ string) error {
	return r.send("position_published", to)
}

func (r *Recorder) Redeliver(_ context.Context, n store.Notification) error {
	return r.send(n.Template, n.RecipientEmail)
}

func (r *Recorder) Test(_ context.Context, to string) error {
	return r.send("test", to)
}

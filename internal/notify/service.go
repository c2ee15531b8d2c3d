// Package notify delivers the pipeline's transactional emails and keeps the
// notifications audit table current. Every send is recorded first, keyed by a
// deterministic dedup key, so retries update the same audit row instead of
// duplicating it. Delivery is at-least-once.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"talentflow-engine/internal/config"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
)

// Service sends pipeline emails. Implementations are safe for concurrent use.
type Service interface {
	SendLeadReceived(ctx context.Context, l store.Lead) error
	SendAdminLeadAlert(ctx context.Context, l store.Lead) error
	SendClientInvitation(ctx context.Context, c store.Company, inviteURL string) error
	SendLeaderRequest(ctx context.Context, p store.Position, formURL string) error
	SendPositionPublished(ctx context.Context, p store.Position, to, toName, publicURL string) error

	// Redeliver retries a previously recorded notification. Used by the
	// background worker for rows still queued or failed.
	Redeliver(ctx context.Context, n store.Notification) error

	// Test sends a throwaway message so an operator can verify the mail
	// backend without touching pipeline data.
	Test(ctx context.Context, to string) error
}

type message struct {
	dedupKey string
	template string
	to       string
	toName   string
	subject  string
	body     string
}

// NewService picks the mail backend from config. Mail disabled means every
// send is recorded as delivered without leaving the process, which keeps the
// pipeline fully usable in local setups.
func NewService(db *store.DB, cfg config.Config, apiKey string) Service {
	if !cfg.Mail.Enabled || cfg.Mail.Endpoint == "" {
		log.Printf("notify: mail disabled, using noop backend")
		return &noopService{db: db}
	}
	timeout := time.Duration(cfg.Mail.RequestTimeoutSeconds) * time.Second
	return &mailService{
		db:         db,
		client:     &http.Client{Timeout: timeout},
		endpoint:   cfg.Mail.Endpoint,
		from:       cfg.Mail.FromAddress,
		adminEmail: cfg.Mail.AdminEmail,
		apiKey:     apiKey,
	}
}

// mailService posts messages to an HTTP mail provider.
type mailService struct {
	db         *store.DB
	client     *http.Client
	endpoint   string
	from       string
	adminEmail string
	apiKey     string
}

func (s *mailService) SendLeadReceived(ctx context.Context, l store.Lead) error {
	subject, body := leadReceivedMessage(l)
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateLeadReceived, l.ID),
		template: TemplateLeadReceived,
		to:       l.ContactEmail,
		toName:   l.ContactName,
		subject:  subject,
		body:     body,
	})
}

func (s *mailService) SendAdminLeadAlert(ctx context.Context, l store.Lead) error {
	if s.adminEmail == "" {
		return nil
	}
	subject, body := adminLeadAlertMessage(l)
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateAdminLeadAlert, l.ID),
		template: TemplateAdminLeadAlert,
		to:       s.adminEmail,
		toName:   "Admin",
		subject:  subject,
		body:     body,
	})
}

func (s *mailService) SendClientInvitation(ctx context.Context, c store.Company, inviteURL string) error {
	subject, body := clientInvitationMessage(c, inviteURL)
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateClientInvitation, c.ID),
		template: TemplateClientInvitation,
		to:       c.PrimaryContactEmail,
		toName:   c.PrimaryContactName,
		subject:  subject,
		body:     body,
	})
}

func (s *mailService) SendLeaderRequest(ctx context.Context, p store.Position, formURL string) error {
	subject, body := leaderRequestMessage(p, formURL)
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateLeaderRequest, p.ID),
		template: TemplateLeaderRequest,
		to:       p.LeaderEmail,
		toName:   p.LeaderName,
		subject:  subject,
		body:     body,
	})
}

func (s *mailService) SendPositionPublished(ctx context.Context, p store.Position, to, toName, publicURL string) error {
	subject, body := positionPublishedMessage(p, publicURL)
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplatePositionPublished, p.ID),
		template: TemplatePositionPublished,
		to:       to,
		toName:   toName,
		subject:  subject,
		body:     body,
	})
}

func (s *mailService) Redeliver(ctx context.Context, n store.Notification) error {
	return s.deliver(ctx, message{
		dedupKey: n.DedupKey,
		template: n.Template,
		to:       n.RecipientEmail,
		toName:   n.RecipientName,
		subject:  n.Subject,
		body:     n.Body,
	})
}

func (s *mailService) Test(ctx context.Context, to string) error {
	return s.deliver(ctx, message{
		dedupKey: fmt.Sprintf("%s:%s", TemplateTest, uuid.NewString()),
		template: TemplateTest,
		to:       to,
		toName:   to,
		subject:  "Mail backend test",
		body:     "If you can read this, outbound mail is configured correctly.",
	})
}

func (s *mailService) deliver(ctx context.Context, msg message) error {
	if _, err := store.UpsertNotification(ctx, s.db.Pool, store.Notification{
		DedupKey:       msg.dedupKey,
		Template:       msg.template,
		RecipientEmail: msg.to,
		RecipientName:  msg.toName,
		Subject:        msg.subject,
		Body:           msg.body,
	}); err != nil {
		return err
	}

	deliveryID, err := s.post(ctx, msg)
	if err != nil {
		if mErr := store.MarkNotificationFailed(ctx, s.db.Pool, msg.dedupKey, err.Error()); mErr != nil {
			log.Printf("notify: mark failed error dedup=%s err=%v", msg.dedupKey, mErr)
		}
		return &hireerr.DispatchError{Template: msg.template, Recipient: msg.to, Err: err}
	}
	if err := store.MarkNotificationSent(ctx, s.db.Pool, msg.dedupKey, deliveryID); err != nil {
		return err
	}
	log.Printf("notify: sent template=%s to=%s delivery=%s", msg.template, msg.to, deliveryID)
	return nil
}

func (s *mailService) post(ctx context.Context, msg message) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"from":    s.from,
		"to":      msg.to,
		"to_name": msg.toName,
		"subject": msg.subject,
		"text":    msg.body,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mail backend returned %d: %s", resp.StatusCode, raw)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.ID == "" {
		// Provider accepted the message but gave no usable id.
		return uuid.NewString(), nil
	}
	return out.ID, nil
}

// noopService records every message as sent without delivering it. The audit
// trail stays complete, so flipping mail on later needs no data changes.
type noopService struct {
	db *store.DB
}

func (s *noopService) record(ctx context.Context, msg message) error {
	if _, err := store.UpsertNotification(ctx, s.db.Pool, store.Notification{
		DedupKey:       msg.dedupKey,
		Template:       msg.template,
		RecipientEmail: msg.to,
		RecipientName:  msg.toName,
		Subject:        msg.subject,
		Body:           msg.body,
	}); err != nil {
		return err
	}
	return store.MarkNotificationSent(ctx, s.db.Pool, msg.dedupKey, "noop-"+uuid.NewString())
}

func (s *noopService) SendLeadReceived(ctx context.Context, l store.Lead) error {
	subject, body := leadReceivedMessage(l)
	return s.record(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateLeadReceived, l.ID),
		template: TemplateLeadReceived,
		to:       l.ContactEmail, toName: l.ContactName,
		subject: subject, body: body,
	})
}

func (s *noopService) SendAdminLeadAlert(ctx context.Context, l store.Lead) error {
	subject, body := adminLeadAlertMessage(l)
	return s.record(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateAdminLeadAlert, l.ID),
		template: TemplateAdminLeadAlert,
		to:       "admin@localhost", toName: "Admin",
		subject: subject, body: body,
	})
}

func (s *noopService) SendClientInvitation(ctx context.Context, c store.Company, inviteURL string) error {
	subject, body := clientInvitationMessage(c, inviteURL)
	return s.record(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateClientInvitation, c.ID),
		template: TemplateClientInvitation,
		to:       c.PrimaryContactEmail, toName: c.PrimaryContactName,
		subject: subject, body: body,
	})
}

func (s *noopService) SendLeaderRequest(ctx context.Context, p store.Position, formURL string) error {
	subject, body := leaderRequestMessage(p, formURL)
	return s.record(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplateLeaderRequest, p.ID),
		template: TemplateLeaderRequest,
		to:       p.LeaderEmail, toName: p.LeaderName,
		subject: subject, body: body,
	})
}

func (s *noopService) SendPositionPublished(ctx context.Context, p store.Position, to, toName, publicURL string) error {
	subject, body := positionPublishedMessage(p, publicURL)
	return s.record(ctx, message{
		dedupKey: fmt.Sprintf("%s:%d", TemplatePositionPublished, p.ID),
		template: TemplatePositionPublished,
		to:       to, toName: toName,
		subject: subject, body: body,
	})
}

func (s *noopService) Redeliver(ctx context.Context, n store.Notification) error {
	return store.MarkNotificationSent(ctx, s.db.Pool, n.DedupKey, "noop-"+uuid.NewString())
}

func (s *noopService) Test(ctx context.Context, to string) error {
	log.Printf("notify: noop test message to=%s", to)
	return nil
}

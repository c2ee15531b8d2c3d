package leadflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/testsupport"
)

func newManager(t *testing.T) (*Manager, *testsupport.Recorder) {
	t.Helper()
	rec := testsupport.NewRecorder()
	return &Manager{
		DB:       testsupport.NewStore(t),
		Notify:   rec,
		Hub:      events.NewHub(),
		Validate: hireerr.NewValidator(),
		BaseURL:  "http://127.0.0.1:38520",
	}, rec
}

func validSubmit() SubmitInput {
	return SubmitInput{
		ContactName:  "Dana Ops",
		ContactEmail: "dana@acme.test",
		CompanyName:  "Acme",
		Intent:       "hiring",
		RoleTitle:    "Platform Engineer",
		Seniority:    "senior",
		WorkMode:     "remote",
		Urgency:      "1-month",
	}
}

func TestSubmitRequiresRoleFieldsWhenHiring(t *testing.T) {
	m, _ := newManager(t)

	in := validSubmit()
	in.RoleTitle = ""
	in.Urgency = ""
	_, err := m.Submit(context.Background(), in)

	var ve *hireerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["role_title"]; !ok {
		t.Errorf("fields = %v, want role_title", ve.Fields)
	}
	if _, ok := ve.Fields["urgency"]; !ok {
		t.Errorf("fields = %v, want urgency", ve.Fields)
	}
}

func TestSubmitConversationIntentSkipsRoleFields(t *testing.T) {
	m, rec := newManager(t)

	in := SubmitInput{
		ContactName:  "Sam Lee",
		ContactEmail: "sam@curious.test",
		CompanyName:  "Curious Inc",
		Intent:       "conversation",
	}
	lead, err := m.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if lead.Status != "pending" {
		t.Fatalf("status = %q, want pending", lead.Status)
	}
	if rec.CountSent("lead_received") != 1 {
		t.Errorf("confirmation sends = %d, want 1", rec.CountSent("lead_received"))
	}
	if rec.CountSent("admin_lead_alert") != 1 {
		t.Errorf("admin alerts = %d, want 1", rec.CountSent("admin_lead_alert"))
	}
}

func TestSubmitRejectsUnknownIntent(t *testing.T) {
	m, _ := newManager(t)

	in := validSubmit()
	in.Intent = "browsing"
	_, err := m.Submit(context.Background(), in)

	var ve *hireerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if msg, ok := ve.Fields["intent"]; !ok || !strings.Contains(msg, "hiring conversation") {
		t.Errorf("fields = %v, want intent limited to hiring/conversation", ve.Fields)
	}
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	m, _ := newManager(t)
	in := validSubmit()
	in.ContactEmail = "not-an-email"
	if _, err := m.Submit(context.Background(), in); hireerr.KindOf(err) != hireerr.KindValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSubmitDuplicateOpenLead(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	if _, err := m.Submit(ctx, validSubmit()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := m.Submit(ctx, validSubmit())
	var de *hireerr.DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}
	if de.Field != "contact_email" {
		t.Fatalf("field = %q, want contact_email", de.Field)
	}
}

func TestRejectedLeadMayResubmit(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	lead, err := m.Submit(ctx, validSubmit())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Reject(ctx, lead.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := m.Submit(ctx, validSubmit()); err != nil {
		t.Fatalf("resubmit after reject: %v", err)
	}
}

func TestReviewTransitionsAreGuarded(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	lead, err := m.Submit(ctx, validSubmit())
	if err != nil {
		t.Fatal(err)
	}

	approved, err := m.Approve(ctx, lead.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != "approved" {
		t.Fatalf("status = %q, want approved", approved.Status)
	}

	// Second decision on the same lead must fail, whichever it is.
	if _, err := m.Approve(ctx, lead.ID); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("re-approve err = %v, want invalid transition", err)
	}
	if _, err := m.Reject(ctx, lead.ID); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("reject-after-approve err = %v, want invalid transition", err)
	}

	if _, err := m.Approve(ctx, 9999); !errors.Is(err, hireerr.ErrNotFound) {
		t.Errorf("approve missing err = %v, want not found", err)
	}
}

func TestConvertRequiresApproval(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	lead, err := m.Submit(ctx, validSubmit())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Convert(ctx, lead.ID); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Fatalf("convert pending err = %v, want invalid transition", err)
	}
}

func TestConvertIsRetryableAfterDispatchFailure(t *testing.T) {
	m, rec := newManager(t)
	ctx := context.Background()

	lead, err := m.Submit(ctx, validSubmit())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Approve(ctx, lead.ID); err != nil {
		t.Fatal(err)
	}

	// First attempt: the invitation mail fails. The company must exist but
	// the lead must stay approved so the attempt can be repeated.
	rec.FailTemplate("client_invitation", true)
	if _, err := m.Convert(ctx, lead.ID); hireerr.KindOf(err) != hireerr.KindDispatch {
		t.Fatalf("convert err = %v, want dispatch", err)
	}

	stuck, err := store.FindLeadByID(ctx, m.DB.Pool, lead.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stuck.Status != "approved" {
		t.Fatalf("status after failed convert = %q, want approved", stuck.Status)
	}
	first, found, err := store.FindCompanyByLeadID(ctx, m.DB.Pool, lead.ID)
	if err != nil || !found {
		t.Fatalf("company after failed convert: found=%v err=%v", found, err)
	}
	if first.InvitedAt != "" {
		t.Fatalf("invited_at = %q, want empty", first.InvitedAt)
	}

	// Retry reuses the same company and completes the conversion.
	rec.FailTemplate("client_invitation", false)
	company, err := m.Convert(ctx, lead.ID)
	if err != nil {
		t.Fatalf("retry convert: %v", err)
	}
	if company.ID != first.ID {
		t.Fatalf("company id = %d, want %d (reused)", company.ID, first.ID)
	}
	if company.InvitedAt == "" {
		t.Error("invited_at empty after successful convert")
	}
	if company.CompanyDomain != "acme.test" {
		t.Errorf("domain = %q, want acme.test", company.CompanyDomain)
	}

	done, err := store.FindLeadByID(ctx, m.DB.Pool, lead.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != "converted" {
		t.Fatalf("status = %q, want converted", done.Status)
	}
	if rec.CountSent("client_invitation") != 1 {
		t.Errorf("invitations sent = %d, want 1", rec.CountSent("client_invitation"))
	}

	// A converted lead cannot be converted again.
	if _, err := m.Convert(ctx, lead.ID); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Fatalf("second convert err = %v, want invalid transition", err)
	}
}

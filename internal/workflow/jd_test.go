package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
)

// positionAtLeaderCompleted walks a fresh position to leader_completed.
func positionAtLeaderCompleted(t *testing.T, e *Engine, companyID int64) store.Position {
	t.Helper()
	ctx := context.Background()

	pos, err := e.Create(ctx, validCreate(companyID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.NotifyLeader(ctx, pos.ID); err != nil {
		t.Fatal(err)
	}
	pos, err = e.LeaderSubmit(ctx, pos.ID, validLeaderInput(t, e, pos.Area))
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

func TestUpsertJDBeforeLeaderSpecsIsNotFound(t *testing.T) {
	e, _, companyID := newEngine(t)
	ctx := context.Background()

	pos, err := e.Create(ctx, validCreate(companyID))
	if err != nil {
		t.Fatal(err)
	}
	// Nothing to author against until the leader has answered.
	if _, err := e.UpsertJD(ctx, pos.ID, "draft", "hr"); !errors.Is(err, hireerr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := e.NotifyLeader(ctx, pos.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.UpsertJD(ctx, pos.ID, "draft", "hr"); !errors.Is(err, hireerr.ErrNotFound) {
		t.Fatalf("err after notify = %v, want not found", err)
	}
}

func TestUpsertJDGeneratesDefaultContent(t *testing.T) {
	e, _, companyID := newEngine(t)
	ctx := context.Background()
	pos := positionAtLeaderCompleted(t, e, companyID)

	jd, err := e.UpsertJD(ctx, pos.ID, "", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if jd.Version != 1 || !jd.IsCurrent {
		t.Fatalf("version=%d current=%v, want v1 current", jd.Version, jd.IsCurrent)
	}
	if jd.Author != "hr" {
		t.Errorf("author = %q, want hr", jd.Author)
	}
	if !strings.Contains(jd.Content, pos.PositionName) {
		t.Error("default content missing position name")
	}
	if !strings.Contains(jd.Content, pos.SalaryRange) {
		t.Error("default content missing salary range")
	}
	if !strings.Contains(jd.Content, "p99 latency under 200ms") {
		t.Error("default content missing success KPI")
	}

	after, err := store.FindPositionByID(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.WorkflowStage != string(StageJDGenerated) {
		t.Fatalf("stage = %q, want job_desc_generated", after.WorkflowStage)
	}
}

func TestUpsertJDEditsInPlaceBeforeApproval(t *testing.T) {
	e, _, companyID := newEngine(t)
	ctx := context.Background()
	pos := positionAtLeaderCompleted(t, e, companyID)

	first, err := e.UpsertJD(ctx, pos.ID, "v1 draft", "hr")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.UpsertJD(ctx, pos.ID, "v1 draft, edited", "hr")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if second.ID != first.ID || second.Version != 1 {
		t.Fatalf("edit forked history: id=%d version=%d", second.ID, second.Version)
	}
	if second.Content != "v1 draft, edited" {
		t.Fatalf("content = %q", second.Content)
	}

	// Edits cannot blank the content.
	if _, err := e.UpsertJD(ctx, pos.ID, "   ", "hr"); hireerr.KindOf(err) != hireerr.KindValidation {
		t.Fatalf("blank edit err = %v, want validation", err)
	}
}

func TestRejectApproveLoop(t *testing.T) {
	e, _, companyID := newEngine(t)
	ctx := context.Background()
	pos := positionAtLeaderCompleted(t, e, companyID)

	jd, err := e.UpsertJD(ctx, pos.ID, "", "hr")
	if err != nil {
		t.Fatal(err)
	}

	// Rejection needs actionable feedback.
	if _, err := e.RejectJD(ctx, jd.ID, "  "); hireerr.KindOf(err) != hireerr.KindValidation {
		t.Fatalf("empty feedback err = %v, want validation", err)
	}

	rejected, err := e.RejectJD(ctx, jd.ID, "tone it down")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.HRFeedback != "tone it down" {
		t.Errorf("feedback = %q", rejected.HRFeedback)
	}

	// The loop stays open: position unchanged, editing still allowed.
	after, err := store.FindPositionByID(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.WorkflowStage != string(StageJDGenerated) {
		t.Fatalf("stage after reject = %q, want job_desc_generated", after.WorkflowStage)
	}
	if _, err := e.UpsertJD(ctx, pos.ID, "calmer draft", "hr"); err != nil {
		t.Fatalf("edit after reject: %v", err)
	}

	approved, err := e.ApproveJD(ctx, jd.ID, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.HRApproved || approved.HRApprovedAt == "" {
		t.Error("approval flags not set")
	}
	if approved.HRFeedback != "Approved" {
		t.Errorf("feedback = %q, want Approved", approved.HRFeedback)
	}
	after, err = store.FindPositionByID(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.WorkflowStage != string(StageValidationPending) {
		t.Fatalf("stage after approve = %q, want validation_pending", after.WorkflowStage)
	}

	// Approval freezes the content and the decision.
	if _, err := e.ApproveJD(ctx, jd.ID, ""); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("second approve err = %v, want invalid transition", err)
	}
	if _, err := e.RejectJD(ctx, jd.ID, "too late"); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("reject after approve err = %v, want invalid transition", err)
	}
	if _, err := e.UpsertJD(ctx, pos.ID, "sneaky edit", "hr"); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("edit after approve err = %v, want invalid transition", err)
	}
}

func TestPublishRequiresApproval(t *testing.T) {
	e, _, companyID := newEngine(t)
	ctx := context.Background()
	pos := positionAtLeaderCompleted(t, e, companyID)

	jd, err := e.UpsertJD(ctx, pos.ID, "", "hr")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.PublishJD(ctx, jd.ID); hireerr.KindOf(err) != hireerr.KindPrecondition {
		t.Fatalf("publish unapproved err = %v, want precondition", err)
	}

	// The failed publish left no trace.
	same, err := store.FindJDByID(ctx, e.DB.Pool, jd.ID)
	if err != nil {
		t.Fatal(err)
	}
	if same.PublishedAt != "" {
		t.Fatalf("published_at = %q, want empty", same.PublishedAt)
	}
	after, err := store.FindPositionByID(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.WorkflowStage != string(StageJDGenerated) {
		t.Fatalf("stage = %q, want job_desc_generated", after.WorkflowStage)
	}
}

func TestPublishActivatesPosition(t *testing.T) {
	e, rec, companyID := newEngine(t)
	ctx := context.Background()
	pos := positionAtLeaderCompleted(t, e, companyID)

	jd, err := e.UpsertJD(ctx, pos.ID, "", "hr")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApproveJD(ctx, jd.ID, "ship it"); err != nil {
		t.Fatal(err)
	}

	published, err := e.PublishJD(ctx, jd.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == "" {
		t.Error("published_at not stamped")
	}
	active, err := store.FindPositionByID(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		t.Fatal(err)
	}
	if active.WorkflowStage != string(StageActive) {
		t.Fatalf("stage = %q, want active", active.WorkflowStage)
	}
	if rec.CountSent("position_published") != 1 {
		t.Errorf("publish mails = %d, want 1", rec.CountSent("position_published"))
	}

	// Publishing is terminal for the version and the position.
	if _, err := e.PublishJD(ctx, jd.ID); hireerr.KindOf(err) != hireerr.KindInvalidTransition {
		t.Errorf("second publish err = %v, want invalid transition", err)
	}
}

func TestStageTimestampsAreOrdered(t *testing.T) {
	e, _, companyID := newEngine(t)
	pos := advanceToActive(t, e, companyID)

	if pos.HRCompletedAt == "" || pos.LeaderNotifiedAt == "" || pos.LeaderDoneAt == "" {
		t.Fatalf("missing stage timestamps: %+v", pos)
	}
	// RFC3339 strings compare chronologically.
	if pos.HRCompletedAt > pos.LeaderNotifiedAt {
		t.Errorf("hr_completed_at %s after leader_notified_at %s", pos.HRCompletedAt, pos.LeaderNotifiedAt)
	}
	if pos.LeaderNotifiedAt > pos.LeaderDoneAt {
		t.Errorf("leader_notified_at %s after leader_completed_at %s", pos.LeaderNotifiedAt, pos.LeaderDoneAt)
	}
}

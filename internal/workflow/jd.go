package workflow

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
)

// UpsertJD creates or edits the current job description for a position. The
// first write needs the leader specs in hand; before leader_completed there
// is nothing to author against and the position reads as not found. The
// initial write advances the position to job_desc_generated. Later writes
// edit the current version in place until HR approves it; after that the
// content is frozen.
func (e *Engine) UpsertJD(ctx context.Context, positionID int64, content, author string) (store.JobDescription, error) {
	pos, err := store.FindPositionByID(ctx, e.DB.Pool, positionID)
	if err != nil {
		return store.JobDescription{}, err
	}
	if Rank(pos.WorkflowStage) < Rank(string(StageLeaderCompleted)) {
		return store.JobDescription{}, hireerr.ErrNotFound
	}
	if author == "" {
		author = "hr"
	}

	current, found, err := store.FindCurrentJD(ctx, e.DB.Pool, positionID)
	if err != nil {
		return store.JobDescription{}, err
	}

	var jd store.JobDescription
	if !found {
		if strings.TrimSpace(content) == "" {
			content = DefaultJDContent(pos)
		}
		jd, err = store.CreateInitialJD(ctx, e.DB.Pool, positionID, content, author)
		if err != nil {
			return store.JobDescription{}, err
		}
		log.Printf("workflow: jd created position=%d jd=%d", positionID, jd.ID)
		if pos, findErr := store.FindPositionByID(ctx, e.DB.Pool, positionID); findErr == nil {
			e.publishStage(pos)
		}
	} else {
		if current.HRApproved {
			return store.JobDescription{}, &hireerr.InvalidStateTransition{
				Entity: "job description", Current: "approved", Attempted: "edited",
			}
		}
		if strings.TrimSpace(content) == "" {
			return store.JobDescription{}, hireerr.Validationf("content", "is required")
		}
		jd, err = store.ReplaceJDContent(ctx, e.DB.Pool, current.ID, content)
		if err != nil {
			return store.JobDescription{}, err
		}
		log.Printf("workflow: jd edited position=%d jd=%d", positionID, jd.ID)
	}

	e.Hub.Publish(events.MakeEvent("", events.TypeJDUpserted, 1, jd))
	return jd, nil
}

// ApproveJD records HR sign-off and moves the position to validation_pending.
func (e *Engine) ApproveJD(ctx context.Context, jdID int64, feedback string) (store.JobDescription, error) {
	if strings.TrimSpace(feedback) == "" {
		feedback = "Approved"
	}
	jd, err := store.ApproveJD(ctx, e.DB.Pool, jdID, feedback)
	if err != nil {
		return store.JobDescription{}, err
	}
	log.Printf("workflow: jd approved jd=%d position=%d", jd.ID, jd.PositionID)
	if pos, findErr := store.FindPositionByID(ctx, e.DB.Pool, jd.PositionID); findErr == nil {
		e.publishStage(pos)
	}
	e.Hub.Publish(events.MakeEvent("", events.TypeJDApproved, 1, jd))
	return jd, nil
}

// RejectJD stores review feedback without moving the position; the authoring
// loop stays open at job_desc_generated. Feedback is mandatory: a rejection
// the author cannot act on is useless.
func (e *Engine) RejectJD(ctx context.Context, jdID int64, feedback string) (store.JobDescription, error) {
	if strings.TrimSpace(feedback) == "" {
		return store.JobDescription{}, hireerr.Validationf("hr_feedback", "is required")
	}
	jd, err := store.RecordJDFeedback(ctx, e.DB.Pool, jdID, feedback)
	if err != nil {
		return store.JobDescription{}, err
	}
	log.Printf("workflow: jd rejected jd=%d position=%d", jd.ID, jd.PositionID)
	e.Hub.Publish(events.MakeEvent("", events.TypeJDRejected, 1, jd))
	return jd, nil
}

// PublishJD makes an approved job description public and the position active.
// The announcement mail is best effort; the publish itself never rolls back.
func (e *Engine) PublishJD(ctx context.Context, jdID int64) (store.JobDescription, error) {
	jd, err := store.PublishJD(ctx, e.DB.Pool, jdID)
	if err != nil {
		return store.JobDescription{}, err
	}
	pos, err := store.FindPositionByID(ctx, e.DB.Pool, jd.PositionID)
	if err != nil {
		return store.JobDescription{}, err
	}
	log.Printf("workflow: jd published jd=%d position=%d code=%s", jd.ID, pos.ID, pos.PositionCode)

	publicURL := fmt.Sprintf("%s/apply/%s", e.BaseURL, pos.PositionCode)
	if company, findErr := store.FindCompanyByID(ctx, e.DB.Pool, pos.CompanyID); findErr == nil {
		if sendErr := e.Notify.SendPositionPublished(ctx, pos,
			company.PrimaryContactEmail, company.PrimaryContactName, publicURL); sendErr != nil {
			log.Printf("workflow: publish mail failed position=%d err=%v", pos.ID, sendErr)
		}
	}

	e.publishStage(pos)
	e.Hub.Publish(events.MakeEvent("", events.TypeJDPublished, 1, jd))
	return jd, nil
}

// DefaultJDContent drafts a job description from the intake and leader specs.
// HR edits it before approval; it is a starting point, not the final text.
func DefaultJDContent(p store.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.PositionName)
	fmt.Fprintf(&b, "**Area:** %s · **Seniority:** %s · **Type:** %s\n\n", p.Area, p.Seniority, p.PositionType)

	b.WriteString("## About the role\n\n")
	fmt.Fprintf(&b, "We are looking for a %s %s to join the team", p.Seniority, p.PositionName)
	if p.WorkArrangement != "" {
		fmt.Fprintf(&b, " (%s)", p.WorkArrangement)
	}
	b.WriteString(".\n\n")

	if p.SuccessKPI != "" {
		b.WriteString("## What success looks like\n\n")
		b.WriteString(p.SuccessKPI)
		b.WriteString("\n\n")
	}

	b.WriteString("## The team\n\n")
	if p.TeamSize != "" {
		fmt.Fprintf(&b, "Team size: %s.\n", p.TeamSize)
	}
	if p.AutonomyLevel != "" {
		fmt.Fprintf(&b, "Autonomy: %s.\n", p.AutonomyLevel)
	}
	if p.CoreHours != "" {
		fmt.Fprintf(&b, "Core hours: %s.\n", p.CoreHours)
	}
	b.WriteString("\n")

	if len(p.AreaSpecificData) > 0 {
		b.WriteString("## Role specifics\n\n")
		for _, k := range sortedKeys(p.AreaSpecificData) {
			fmt.Fprintf(&b, "- %s: %s\n", strings.ReplaceAll(k, "_", " "), p.AreaSpecificData[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Compensation\n\n")
	fmt.Fprintf(&b, "Salary range: %s.\n", p.SalaryRange)
	if p.EquityIncluded {
		b.WriteString("Equity included")
		if p.EquityDetails != "" {
			fmt.Fprintf(&b, ": %s", p.EquityDetails)
		}
		b.WriteString(".\n")
	}
	fmt.Fprintf(&b, "Contract: %s.\n", p.ContractType)
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

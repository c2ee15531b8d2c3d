// Package workflow drives a position through its hiring pipeline. Stages only
// move forward, one step at a time, and every advance is a single guarded
// update, so two concurrent attempts at the same step produce exactly one
// winner.
package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"talentflow-engine/internal/areas"
	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/notify"
	"talentflow-engine/internal/store"
)

type Stage string

const (
	StageHRCompleted       Stage = "hr_completed"
	StageLeaderNotified    Stage = "leader_notified"
	StageLeaderCompleted   Stage = "leader_completed"
	StageJDGenerated       Stage = "job_desc_generated"
	StageValidationPending Stage = "validation_pending"
	StageActive            Stage = "active"
)

var stageRank = map[Stage]int{
	StageHRCompleted:       0,
	StageLeaderNotified:    1,
	StageLeaderCompleted:   2,
	StageJDGenerated:       3,
	StageValidationPending: 4,
	StageActive:            5,
}

// Rank orders stages for before/after checks. Unknown stages rank below
// everything.
func Rank(stage string) int {
	r, ok := stageRank[Stage(stage)]
	if !ok {
		return -1
	}
	return r
}

type Engine struct {
	DB       *store.DB
	Areas    *areas.Resolver
	Notify   notify.Service
	Hub      *events.Hub
	Validate *validator.Validate
	BaseURL  string
}

// CreateInput is the HR intake form. Completing it is what creates the
// position, which is why a new position starts at hr_completed rather than at
// some draft stage.
type CreateInput struct {
	CompanyID      int64  `json:"company_id" validate:"required,gt=0"`
	PositionName   string `json:"position_name" validate:"required,max=200"`
	Area           string `json:"area" validate:"required"`
	Seniority      string `json:"seniority" validate:"required"`
	LeaderName     string `json:"leader_name" validate:"required"`
	LeaderEmail    string `json:"leader_email" validate:"required,email"`
	LeaderPosition string `json:"leader_position"`
	SalaryRange    string `json:"salary_range" validate:"required"`
	EquityIncluded bool   `json:"equity_included"`
	EquityDetails  string `json:"equity_details" validate:"required_if=EquityIncluded true"`
	ContractType   string `json:"contract_type" validate:"required"`
	Timeline       string `json:"timeline" validate:"required"`
	PositionType   string `json:"position_type" validate:"required"`
	CriticalNotes  string `json:"critical_notes"`
}

// Create stores a new position at hr_completed. The position code is derived
// from the name plus a random suffix; a collision is retried with a fresh
// suffix.
func (e *Engine) Create(ctx context.Context, in CreateInput) (store.Position, error) {
	if err := hireerr.FromValidator(e.Validate.Struct(in)); err != nil {
		return store.Position{}, err
	}
	if _, err := e.Areas.Resolve(in.Area); err != nil {
		return store.Position{}, err
	}
	if _, err := store.FindCompanyByID(ctx, e.DB.Pool, in.CompanyID); err != nil {
		return store.Position{}, err
	}

	var pos store.Position
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		pos, err = store.InsertPosition(ctx, e.DB.Pool, store.Position{
			CompanyID:      in.CompanyID,
			PositionCode:   newPositionCode(in.PositionName),
			PositionName:   in.PositionName,
			Area:           in.Area,
			Seniority:      in.Seniority,
			LeaderName:     in.LeaderName,
			LeaderEmail:    strings.ToLower(strings.TrimSpace(in.LeaderEmail)),
			LeaderPosition: in.LeaderPosition,
			SalaryRange:    in.SalaryRange,
			EquityIncluded: in.EquityIncluded,
			EquityDetails:  in.EquityDetails,
			ContractType:   in.ContractType,
			Timeline:       in.Timeline,
			PositionType:   in.PositionType,
			CriticalNotes:  in.CriticalNotes,
		})
		if hireerr.KindOf(err) != hireerr.KindDuplicate {
			break
		}
	}
	if err != nil {
		return store.Position{}, err
	}
	log.Printf("workflow: position created id=%d code=%s area=%s", pos.ID, pos.PositionCode, pos.Area)
	e.publishStage(pos)
	return pos, nil
}

// NotifyLeader emails the specification request and then advances
// hr_completed -> leader_notified. The send comes first: a position never
// claims the leader was notified when no mail went out. A retry after a send
// that was recorded but not advanced is absorbed by the dedup key.
func (e *Engine) NotifyLeader(ctx context.Context, id int64) (store.Position, error) {
	pos, err := store.FindPositionByID(ctx, e.DB.Pool, id)
	if err != nil {
		return store.Position{}, err
	}
	if pos.WorkflowStage != string(StageHRCompleted) {
		return store.Position{}, &hireerr.InvalidStateTransition{
			Entity: "position", Current: pos.WorkflowStage, Attempted: string(StageLeaderNotified),
		}
	}

	formURL := fmt.Sprintf("%s/leader/positions/%d", e.BaseURL, pos.ID)
	if err := e.Notify.SendLeaderRequest(ctx, pos, formURL); err != nil {
		return store.Position{}, err
	}

	ok, err := store.MarkLeaderNotified(ctx, e.DB.Pool, id)
	if err != nil {
		return store.Position{}, err
	}
	if !ok {
		current, findErr := store.FindPositionByID(ctx, e.DB.Pool, id)
		if findErr != nil {
			return store.Position{}, findErr
		}
		return store.Position{}, &hireerr.InvalidStateTransition{
			Entity: "position", Current: current.WorkflowStage, Attempted: string(StageLeaderNotified),
		}
	}
	pos, err = store.FindPositionByID(ctx, e.DB.Pool, id)
	if err != nil {
		return store.Position{}, err
	}
	log.Printf("workflow: leader notified position=%d leader=%s", pos.ID, pos.LeaderEmail)
	e.publishStage(pos)
	return pos, nil
}

// LeaderInput is the business leader's specification form. The general fields
// apply to every area; AreaData must answer the area's question set.
type LeaderInput struct {
	WorkArrangement string            `json:"work_arrangement" validate:"required"`
	CoreHours       string            `json:"core_hours" validate:"required"`
	TeamSize        string            `json:"team_size" validate:"required"`
	AutonomyLevel   string            `json:"autonomy_level" validate:"required"`
	SuccessKPI      string            `json:"success_kpi" validate:"required"`
	AreaData        map[string]string `json:"area_specific_data"`
}

// LeaderSubmit validates the leader's answers against the position's area
// schema and advances leader_notified -> leader_completed. Nothing is written
// when validation fails.
func (e *Engine) LeaderSubmit(ctx context.Context, id int64, in LeaderInput) (store.Position, error) {
	pos, err := store.FindPositionByID(ctx, e.DB.Pool, id)
	if err != nil {
		return store.Position{}, err
	}
	if err := hireerr.FromValidator(e.Validate.Struct(in)); err != nil {
		return store.Position{}, err
	}

	missing, err := e.Areas.MissingRequired(pos.Area, in.AreaData)
	if err != nil {
		return store.Position{}, err
	}
	if len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, qid := range missing {
			fields["area_specific_data."+qid] = "is required"
		}
		return store.Position{}, &hireerr.ValidationError{Fields: fields}
	}

	ok, err := store.ApplyLeaderSpecs(ctx, e.DB.Pool, id, store.LeaderSpecs{
		WorkArrangement:  in.WorkArrangement,
		CoreHours:        in.CoreHours,
		TeamSize:         in.TeamSize,
		AutonomyLevel:    in.AutonomyLevel,
		SuccessKPI:       in.SuccessKPI,
		AreaSpecificData: in.AreaData,
	})
	if err != nil {
		return store.Position{}, err
	}
	if !ok {
		current, findErr := store.FindPositionByID(ctx, e.DB.Pool, id)
		if findErr != nil {
			return store.Position{}, findErr
		}
		return store.Position{}, &hireerr.InvalidStateTransition{
			Entity: "position", Current: current.WorkflowStage, Attempted: string(StageLeaderCompleted),
		}
	}
	pos, err = store.FindPositionByID(ctx, e.DB.Pool, id)
	if err != nil {
		return store.Position{}, err
	}
	log.Printf("workflow: leader specs applied position=%d", pos.ID)
	e.publishStage(pos)
	return pos, nil
}

// PublicView is what an applicant sees. It exposes nothing internal: no
// leader contact, no salary negotiation notes, no workflow bookkeeping.
type PublicView struct {
	PositionCode string `json:"position_code"`
	PositionName string `json:"position_name"`
	Area         string `json:"area"`
	Seniority    string `json:"seniority"`
	ContractType string `json:"contract_type"`
	PositionType string `json:"position_type"`
	SalaryRange  string `json:"salary_range"`
	Content      string `json:"content"`
	PublishedAt  string `json:"published_at"`
}

// GetPublicView resolves a position by its public code. Anything not yet
// active reads as not found, so drafts never leak through the public surface.
func (e *Engine) GetPublicView(ctx context.Context, code string) (PublicView, error) {
	pos, err := store.FindPositionByCode(ctx, e.DB.Pool, code)
	if err != nil {
		return PublicView{}, err
	}
	if pos.WorkflowStage != string(StageActive) {
		return PublicView{}, hireerr.ErrNotFound
	}
	jd, found, err := store.FindCurrentJD(ctx, e.DB.Pool, pos.ID)
	if err != nil {
		return PublicView{}, err
	}
	if !found || jd.PublishedAt == "" {
		return PublicView{}, hireerr.ErrNotFound
	}
	return PublicView{
		PositionCode: pos.PositionCode,
		PositionName: pos.PositionName,
		Area:         pos.Area,
		Seniority:    pos.Seniority,
		ContractType: pos.ContractType,
		PositionType: pos.PositionType,
		SalaryRange:  pos.SalaryRange,
		Content:      jd.Content,
		PublishedAt:  jd.PublishedAt,
	}, nil
}

func (e *Engine) publishStage(pos store.Position) {
	e.Hub.Publish(events.MakeEvent("", events.TypeStageChanged, 1, map[string]any{
		"position_id":   pos.ID,
		"position_code": pos.PositionCode,
		"stage":         pos.WorkflowStage,
	}))
}

func newPositionCode(name string) string {
	return slugify(name) + "-" + uuid.NewString()[:8]
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "position"
	}
	if len(out) > 40 {
		out = strings.TrimSuffix(out[:40], "-")
	}
	return out
}

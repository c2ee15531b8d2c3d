package workflow

import (
	"context"
	"log"
	"strings"

	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/store"
)

// FileUpload is a file received with an application.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ApplyInput is the public application form, addressed by position code.
type ApplyInput struct {
	PositionCode string `json:"position_code" validate:"required"`
	FullName     string `json:"full_name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	LinkedInURL  string `json:"linkedin_url" validate:"omitempty,url"`
	PortfolioURL string `json:"portfolio_url" validate:"omitempty,url"`
	Location     string `json:"location"`
	CoverLetter  string `json:"cover_letter"`

	Resume    *FileUpload `json:"-"`
	Portfolio []FileUpload `json:"-"`
}

// Apply records an application against an active position. Files are stored
// first and the record only ever references files that made it in; a retried
// upload of identical content reuses the stored blob.
func (e *Engine) Apply(ctx context.Context, in ApplyInput) (store.Applicant, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := hireerr.FromValidator(e.Validate.Struct(in)); err != nil {
		return store.Applicant{}, err
	}

	pos, err := store.FindPositionByCode(ctx, e.DB.Pool, in.PositionCode)
	if err != nil {
		return store.Applicant{}, err
	}
	if pos.WorkflowStage != string(StageActive) {
		// Applications to unpublished positions read as not found, same as
		// the public view.
		return store.Applicant{}, hireerr.ErrNotFound
	}

	applicant, err := store.InsertApplicant(ctx, e.DB.Pool, store.Applicant{
		PositionID:   pos.ID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		LinkedInURL:  in.LinkedInURL,
		PortfolioURL: in.PortfolioURL,
		Location:     in.Location,
		CoverLetter:  in.CoverLetter,
	})
	if err != nil {
		return store.Applicant{}, err
	}

	if in.Resume != nil {
		key, err := store.SaveUpload(ctx, e.DB.Pool, "resume", in.Resume.Filename, in.Resume.ContentType, in.Resume.Data)
		if err != nil {
			return store.Applicant{}, err
		}
		if err := store.SetApplicantResume(ctx, e.DB.Pool, applicant.ID, "/files/"+key); err != nil {
			return store.Applicant{}, err
		}
		applicant.ResumeURL = "/files/" + key
	}

	if len(in.Portfolio) > 0 {
		urls := make([]string, 0, len(in.Portfolio))
		for _, f := range in.Portfolio {
			key, err := store.SaveUpload(ctx, e.DB.Pool, "portfolio", f.Filename, f.ContentType, f.Data)
			if err != nil {
				return store.Applicant{}, err
			}
			urls = append(urls, "/files/"+key)
		}
		if err := store.SetApplicantPortfolio(ctx, e.DB.Pool, applicant.ID, urls); err != nil {
			return store.Applicant{}, err
		}
		applicant.PortfolioFiles = urls
	}

	log.Printf("workflow: application received position=%s applicant=%d", pos.PositionCode, applicant.ID)
	e.Hub.Publish(events.MakeEvent("", events.TypeApplicantAdded, 1, map[string]any{
		"applicant_id":  applicant.ID,
		"position_id":   pos.ID,
		"position_code": pos.PositionCode,
	}))
	return applicant, nil
}

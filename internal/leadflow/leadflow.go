// Package leadflow runs the lead lifecycle: public submission, admin review
// and conversion into a client company. Every status change goes through the
// guarded store write, so concurrent reviewers cannot double-apply a decision.
package leadflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"talentflow-engine/internal/events"
	"talentflow-engine/internal/hireerr"
	"talentflow-engine/internal/notify"
	"talentflow-engine/internal/store"
)

type Manager struct {
	DB       *store.DB
	Notify   notify.Service
	Hub      *events.Hub
	Validate *validator.Validate
	BaseURL  string
}

// SubmitInput is the public lead form. Role fields are mandatory only when
// the contact already has a concrete hire in mind.
type SubmitInput struct {
	ContactName     string `json:"contact_name" validate:"required,max=200"`
	ContactEmail    string `json:"contact_email" validate:"required,email"`
	ContactPhone    string `json:"contact_phone"`
	ContactPosition string `json:"contact_position"`
	CompanyName     string `json:"company_name" validate:"required,max=200"`
	Industry        string `json:"industry"`
	CompanySize     string `json:"company_size"`
	Intent          string `json:"intent" validate:"required,oneof=hiring conversation"`
	RoleTitle       string `json:"role_title" validate:"required_if=Intent hiring"`
	Seniority       string `json:"seniority" validate:"required_if=Intent hiring"`
	WorkMode        string `json:"work_mode" validate:"required_if=Intent hiring"`
	Urgency         string `json:"urgency" validate:"required_if=Intent hiring"`
}

// Submit validates and stores a new lead at pending, then sends the
// confirmation and admin alert. Mail failures do not fail the submission; the
// audit rows stay behind for the retry worker.
func (m *Manager) Submit(ctx context.Context, in SubmitInput) (store.Lead, error) {
	in.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))
	if err := hireerr.FromValidator(m.Validate.Struct(in)); err != nil {
		return store.Lead{}, err
	}

	if existing, found, err := store.FindOpenLeadByEmail(ctx, m.DB.Pool, in.ContactEmail); err != nil {
		return store.Lead{}, err
	} else if found {
		log.Printf("leadflow: duplicate submission email=%s existing_lead=%d status=%s",
			in.ContactEmail, existing.ID, existing.Status)
		return store.Lead{}, &hireerr.DuplicateError{Field: "contact_email", Value: in.ContactEmail}
	}

	lead, err := store.InsertLead(ctx, m.DB.Pool, store.Lead{
		ContactName:     in.ContactName,
		ContactEmail:    in.ContactEmail,
		ContactPhone:    in.ContactPhone,
		ContactPosition: in.ContactPosition,
		CompanyName:     in.CompanyName,
		Industry:        in.Industry,
		CompanySize:     in.CompanySize,
		Intent:          in.Intent,
		RoleTitle:       in.RoleTitle,
		Seniority:       in.Seniority,
		WorkMode:        in.WorkMode,
		Urgency:         in.Urgency,
	})
	if err != nil {
		return store.Lead{}, err
	}
	log.Printf("leadflow: lead submitted id=%d company=%q intent=%s", lead.ID, lead.CompanyName, lead.Intent)

	if err := m.Notify.SendLeadReceived(ctx, lead); err != nil {
		log.Printf("leadflow: confirmation mail failed lead=%d err=%v", lead.ID, err)
	}
	if err := m.Notify.SendAdminLeadAlert(ctx, lead); err != nil {
		log.Printf("leadflow: admin alert failed lead=%d err=%v", lead.ID, err)
	}

	m.Hub.Publish(events.MakeEvent("", events.TypeLeadSubmitted, 1, lead))
	return lead, nil
}

// Approve moves a pending lead to approved.
func (m *Manager) Approve(ctx context.Context, id int64) (store.Lead, error) {
	return m.review(ctx, id, "approved", events.TypeLeadApproved)
}

// Reject moves a pending lead to rejected. The contact may submit again later.
func (m *Manager) Reject(ctx context.Context, id int64) (store.Lead, error) {
	return m.review(ctx, id, "rejected", events.TypeLeadRejected)
}

func (m *Manager) review(ctx context.Context, id int64, decision, eventType string) (store.Lead, error) {
	lead, err := store.FindLeadByID(ctx, m.DB.Pool, id)
	if err != nil {
		return store.Lead{}, err
	}
	ok, err := store.TransitionLeadStatus(ctx, m.DB.Pool, id, "pending", decision)
	if err != nil {
		return store.Lead{}, err
	}
	if !ok {
		return store.Lead{}, &hireerr.InvalidStateTransition{
			Entity: "lead", Current: lead.Status, Attempted: decision,
		}
	}
	log.Printf("leadflow: lead %s id=%d", decision, id)
	lead, err = store.FindLeadByID(ctx, m.DB.Pool, id)
	if err != nil {
		return store.Lead{}, err
	}
	m.Hub.Publish(events.MakeEvent("", eventType, 1, lead))
	return lead, nil
}

// Convert turns an approved lead into a client company and invites the
// contact. The company insert is keyed by the lead id, so a retry after a
// partial failure reuses the company created earlier instead of duplicating
// it. Only after the invitation went out does the lead move to converted.
func (m *Manager) Convert(ctx context.Context, id int64) (store.Company, error) {
	lead, err := store.FindLeadByID(ctx, m.DB.Pool, id)
	if err != nil {
		return store.Company{}, err
	}
	if lead.Status != "approved" {
		return store.Company{}, &hireerr.InvalidStateTransition{
			Entity: "lead", Current: lead.Status, Attempted: "converted",
		}
	}

	company, found, err := store.FindCompanyByLeadID(ctx, m.DB.Pool, lead.ID)
	if err != nil {
		return store.Company{}, err
	}
	if !found {
		company, err = store.InsertCompany(ctx, m.DB.Pool, store.Company{
			SourceLeadID:           lead.ID,
			CompanyName:            lead.CompanyName,
			CompanyDomain:          domainOf(lead.ContactEmail),
			Industry:               lead.Industry,
			CompanySize:            lead.CompanySize,
			PrimaryContactName:     lead.ContactName,
			PrimaryContactEmail:    lead.ContactEmail,
			PrimaryContactPhone:    lead.ContactPhone,
			PrimaryContactPosition: lead.ContactPosition,
		})
		if err != nil {
			if hireerr.KindOf(err) != hireerr.KindDuplicate {
				return store.Company{}, err
			}
			// Lost a concurrent race; the other attempt's company wins.
			company, _, err = store.FindCompanyByLeadID(ctx, m.DB.Pool, lead.ID)
			if err != nil {
				return store.Company{}, err
			}
		}
		log.Printf("leadflow: company created id=%d lead=%d domain=%s", company.ID, lead.ID, company.CompanyDomain)
	}

	inviteURL := fmt.Sprintf("%s/portal?company=%d&invite=%s", m.BaseURL, company.ID, uuid.NewString())
	if err := m.Notify.SendClientInvitation(ctx, company, inviteURL); err != nil {
		// Company stays; the lead remains approved so Convert can be retried.
		return store.Company{}, err
	}

	ok, err := store.TransitionLeadStatus(ctx, m.DB.Pool, id, "approved", "converted")
	if err != nil {
		return store.Company{}, err
	}
	if !ok {
		current, findErr := store.FindLeadByID(ctx, m.DB.Pool, id)
		if findErr != nil {
			return store.Company{}, findErr
		}
		return store.Company{}, &hireerr.InvalidStateTransition{
			Entity: "lead", Current: current.Status, Attempted: "converted",
		}
	}
	if err := store.MarkCompanyInvited(ctx, m.DB.Pool, company.ID); err != nil {
		return store.Company{}, err
	}
	log.Printf("leadflow: lead converted id=%d company=%d", id, company.ID)

	company, err = store.FindCompanyByID(ctx, m.DB.Pool, company.ID)
	if err != nil {
		return store.Company{}, err
	}
	m.Hub.Publish(events.MakeEvent("", events.TypeLeadConverted, 1, company))
	return company, nil
}

func domainOf(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}

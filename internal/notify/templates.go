package notify

import (
	"fmt"

	"talentflow-engine/internal/store"
)

// Template names double as the prefix of the audit dedup key, so each
// template+entity pair has exactly one notifications row.
const (
	TemplateLeadReceived      = "lead_received"
	TemplateAdminLeadAlert    = "admin_lead_alert"
	TemplateClientInvitation  = "client_invitation"
	TemplateLeaderRequest     = "leader_request"
	TemplatePositionPublished = "position_published"
	TemplateTest              = "test"
)

func leadReceivedMessage(l store.Lead) (subject, body string) {
	subject = "We received your request"
	body = fmt.Sprintf(`Hi %s,

Thanks for reaching out. We received your request and our team will review it
shortly. You will hear from us at this address once the review is done.

Company: %s
Intent:  %s

The TalentFlow team`, l.ContactName, l.CompanyName, l.Intent)
	return
}

func adminLeadAlertMessage(l store.Lead) (subject, body string) {
	subject = fmt.Sprintf("New lead: %s (%s)", l.CompanyName, l.Intent)
	body = fmt.Sprintf(`A new lead is waiting for review.

Company:   %s
Contact:   %s <%s>
Intent:    %s
Role:      %s
Seniority: %s
Urgency:   %s`,
		l.CompanyName, l.ContactName, l.ContactEmail, l.Intent,
		l.RoleTitle, l.Seniority, l.Urgency)
	return
}

func clientInvitationMessage(c store.Company, inviteURL string) (subject, body string) {
	subject = "Your hiring workspace is ready"
	body = fmt.Sprintf(`Hi %s,

Your request was approved. Use the link below to access your workspace and
open your first position:

%s

The TalentFlow team`, c.PrimaryContactName, inviteURL)
	return
}

func leaderRequestMessage(p store.Position, formURL string) (subject, body string) {
	subject = fmt.Sprintf("Action needed: specifications for %s", p.PositionName)
	body = fmt.Sprintf(`Hi %s,

HR opened the position %q (%s) and needs your input on the technical and
team-specific requirements before the search can start. Please fill in the
specification form:

%s

It takes about five minutes.`, p.LeaderName, p.PositionName, p.PositionCode, formURL)
	return
}

func positionPublishedMessage(p store.Position, publicURL string) (subject, body string) {
	subject = fmt.Sprintf("Position published: %s", p.PositionName)
	body = fmt.Sprintf(`The position %q (%s) is now live and accepting
applications at:

%s`, p.PositionName, p.PositionCode, publicURL)
	return
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type Lead struct {
	ID              int64  `json:"id"`
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	ContactPosition string `json:"contact_position,omitempty"`
	CompanyName     string `json:"company_name"`
	Industry        string `json:"industry,omitempty"`
	CompanySize     string `json:"company_size,omitempty"`
	Intent          string `json:"intent"`
	RoleTitle       string `json:"role_title,omitempty"`
	Seniority       string `json:"seniority,omitempty"`
	WorkMode        string `json:"work_mode,omitempty"`
	Urgency         string `json:"urgency,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

const leadCols = `id, contact_name, contact_email, contact_phone, contact_position,
company_name, industry, company_size, intent, role_title, seniority, work_mode,
urgency, status, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (Lead, error) {
	var l Lead
	var phone, pos, industry, size, role, sen, wm, urg sql.NullString
	err := row.Scan(
		&l.ID, &l.ContactName, &l.ContactEmail, &phone, &pos,
		&l.CompanyName, &industry, &size, &l.Intent, &role, &sen, &wm,
		&urg, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	l.ContactPhone = textOrEmpty(phone)
	l.ContactPosition = textOrEmpty(pos)
	l.Industry = textOrEmpty(industry)
	l.CompanySize = textOrEmpty(size)
	l.RoleTitle = textOrEmpty(role)
	l.Seniority = textOrEmpty(sen)
	l.WorkMode = textOrEmpty(wm)
	l.Urgency = textOrEmpty(urg)
	return l, nil
}

func InsertLead(ctx context.Context, db *sql.DB, l Lead) (Lead, error) {
	now := nowUTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO leads(contact_name, contact_email, contact_phone, contact_position,
  company_name, industry, company_size, intent, role_title, seniority, work_mode,
  urgency, status, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,'pending',?,?);`,
		l.ContactName, l.ContactEmail, nullable(l.ContactPhone), nullable(l.ContactPosition),
		l.CompanyName, nullable(l.Industry), nullable(l.CompanySize), l.Intent,
		nullable(l.RoleTitle), nullable(l.Seniority), nullable(l.WorkMode),
		nullable(l.Urgency), now, now)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	l.ID, _ = res.LastInsertId()
	l.Status = "pending"
	l.CreatedAt = now
	l.UpdatedAt = now
	return l, nil
}

func FindLeadByID(ctx context.Context, db *sql.DB, id int64) (Lead, error) {
	row := db.QueryRowContext(ctx, `SELECT `+leadCols+` FROM leads WHERE id = ?;`, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("find lead: %w", err)
	}
	return l, nil
}

// FindOpenLeadByEmail returns the newest non-rejected lead for an email, if
// any. Rejected leads do not count: a rejection permits a fresh submission.
func FindOpenLeadByEmail(ctx context.Context, db *sql.DB, email string) (Lead, bool, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+leadCols+` FROM leads
WHERE contact_email = ? AND status != 'rejected'
ORDER BY id DESC LIMIT 1;`, email)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, false, nil
	}
	if err != nil {
		return Lead{}, false, fmt.Errorf("find open lead: %w", err)
	}
	return l, true, nil
}

func ListLeads(ctx context.Context, db *sql.DB, status string) ([]Lead, error) {
	query := `SELECT ` + leadCols + ` FROM leads`
	var args []any
	if status != "" && status != "all" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// TransitionLeadStatus is the single guarded write behind every lead status
// change. It reports false when the lead was not in the expected status, in
// which case nothing was written.
func TransitionLeadStatus(ctx context.Context, db *sql.DB, id int64, from, to string) (bool, error) {
	res, err := db.ExecContext(ctx, `
UPDATE leads SET status = ?, updated_at = ?
WHERE id = ? AND status = ?;`, to, nowUTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("transition lead %d %s->%s: %w", id, from, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type Company struct {
	ID                     int64  `json:"id"`
	SourceLeadID           int64  `json:"source_lead_id,omitempty"`
	CompanyName            string `json:"company_name"`
	CompanyDomain          string `json:"company_domain"`
	Industry               string `json:"industry,omitempty"`
	CompanySize            string `json:"company_size,omitempty"`
	PrimaryContactName     string `json:"primary_contact_name"`
	PrimaryContactEmail    string `json:"primary_contact_email"`
	PrimaryContactPhone    string `json:"primary_contact_phone,omitempty"`
	PrimaryContactPosition string `json:"primary_contact_position,omitempty"`
	SubscriptionStatus     string `json:"subscription_status"`
	InvitedAt              string `json:"invited_at,omitempty"`
	CreatedAt              string `json:"created_at"`
}

const companyCols = `id, source_lead_id, company_name, company_domain, industry,
company_size, primary_contact_name, primary_contact_email, primary_contact_phone,
primary_contact_position, subscription_status, invited_at, created_at`

func scanCompany(row interface{ Scan(...any) error }) (Company, error) {
	var c Company
	var leadID sql.NullInt64
	var industry, size, phone, pos, invited sql.NullString
	err := row.Scan(
		&c.ID, &leadID, &c.CompanyName, &c.CompanyDomain, &industry,
		&size, &c.PrimaryContactName, &c.PrimaryContactEmail, &phone,
		&pos, &c.SubscriptionStatus, &invited, &c.CreatedAt,
	)
	if err != nil {
		return Company{}, err
	}
	if leadID.Valid {
		c.SourceLeadID = leadID.Int64
	}
	c.Industry = textOrEmpty(industry)
	c.CompanySize = textOrEmpty(size)
	c.PrimaryContactPhone = textOrEmpty(phone)
	c.PrimaryContactPosition = textOrEmpty(pos)
	c.InvitedAt = textOrEmpty(invited)
	return c, nil
}

func InsertCompany(ctx context.Context, db *sql.DB, c Company) (Company, error) {
	now := nowUTC()
	var leadID any
	if c.SourceLeadID > 0 {
		leadID = c.SourceLeadID
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO companies(source_lead_id, company_name, company_domain, industry,
  company_size, primary_contact_name, primary_contact_email, primary_contact_phone,
  primary_contact_position, subscription_status, created_at)
VALUES(?,?,?,?,?,?,?,?,?,'trial',?);`,
		leadID, c.CompanyName, c.CompanyDomain, nullable(c.Industry),
		nullable(c.CompanySize), c.PrimaryContactName, c.PrimaryContactEmail,
		nullable(c.PrimaryContactPhone), nullable(c.PrimaryContactPosition), now)
	if err != nil {
		if isUniqueViolation(err) {
			return Company{}, &hireerr.DuplicateError{Field: "source_lead_id", Value: fmt.Sprint(c.SourceLeadID)}
		}
		return Company{}, fmt.Errorf("insert company: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	c.SubscriptionStatus = "trial"
	c.CreatedAt = now
	return c, nil
}

func FindCompanyByID(ctx context.Context, db *sql.DB, id int64) (Company, error) {
	row := db.QueryRowContext(ctx, `SELECT `+companyCols+` FROM companies WHERE id = ?;`, id)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Company{}, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

// FindCompanyByLeadID makes lead conversion retryable: a company created by an
// earlier attempt is reused instead of duplicated.
func FindCompanyByLeadID(ctx context.Context, db *sql.DB, leadID int64) (Company, bool, error) {
	row := db.QueryRowContext(ctx, `SELECT `+companyCols+` FROM companies WHERE source_lead_id = ?;`, leadID)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, false, nil
	}
	if err != nil {
		return Company{}, false, fmt.Errorf("find company by lead: %w", err)
	}
	return c, true, nil
}

func MarkCompanyInvited(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `
UPDATE companies SET invited_at = ? WHERE id = ? AND invited_at IS NULL;`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("mark company invited: %w", err)
	}
	return nil
}

func ListCompanies(ctx context.Context, db *sql.DB) ([]Company, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+companyCols+` FROM companies ORDER BY id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

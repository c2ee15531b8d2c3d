package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type Applicant struct {
	ID              int64    `json:"id"`
	PositionID      int64    `json:"position_id"`
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	LinkedInURL     string   `json:"linkedin_url,omitempty"`
	PortfolioURL    string   `json:"portfolio_url,omitempty"`
	Location        string   `json:"location,omitempty"`
	CoverLetter     string   `json:"cover_letter,omitempty"`
	ResumeURL       string   `json:"resume_url,omitempty"`
	PortfolioFiles  []string `json:"portfolio_files"`
	Qualification   string   `json:"qualification_status"`
	Score           int      `json:"score"`
	EvaluationNotes string   `json:"evaluation_notes,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

const applicantCols = `id, position_id, full_name, email, phone, linkedin_url,
portfolio_url, location, cover_letter, resume_url, portfolio_files,
qualification_status, score, evaluation_notes, created_at, updated_at`

func scanApplicant(row interface{ Scan(...any) error }) (Applicant, error) {
	var a Applicant
	var phone, li, pf, loc, cover, resume, notes sql.NullString
	var filesJSON string
	err := row.Scan(
		&a.ID, &a.PositionID, &a.FullName, &a.Email, &phone, &li,
		&pf, &loc, &cover, &resume, &filesJSON,
		&a.Qualification, &a.Score, &notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Applicant{}, err
	}
	a.Phone = textOrEmpty(phone)
	a.LinkedInURL = textOrEmpty(li)
	a.PortfolioURL = textOrEmpty(pf)
	a.Location = textOrEmpty(loc)
	a.CoverLetter = textOrEmpty(cover)
	a.ResumeURL = textOrEmpty(resume)
	a.EvaluationNotes = textOrEmpty(notes)
	a.PortfolioFiles = []string{}
	_ = json.Unmarshal([]byte(filesJSON), &a.PortfolioFiles)
	return a, nil
}

func InsertApplicant(ctx context.Context, db *sql.DB, a Applicant) (Applicant, error) {
	now := nowUTC()
	res, err := db.ExecContext(ctx, `
INSERT INTO applicants(position_id, full_name, email, phone, linkedin_url,
  portfolio_url, location, cover_letter, qualification_status, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,'applied',?,?);`,
		a.PositionID, a.FullName, a.Email, nullable(a.Phone), nullable(a.LinkedInURL),
		nullable(a.PortfolioURL), nullable(a.Location), nullable(a.CoverLetter), now, now)
	if err != nil {
		return Applicant{}, fmt.Errorf("insert applicant: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	a.Qualification = "applied"
	a.PortfolioFiles = []string{}
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

func FindApplicantByID(ctx context.Context, db *sql.DB, id int64) (Applicant, error) {
	row := db.QueryRowContext(ctx, `SELECT `+applicantCols+` FROM applicants WHERE id = ?;`, id)
	a, err := scanApplicant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Applicant{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Applicant{}, fmt.Errorf("find applicant: %w", err)
	}
	return a, nil
}

// SetApplicantResume attaches the résumé URL after a successful upload. The
// record never points at a file that failed to store.
func SetApplicantResume(ctx context.Context, db *sql.DB, id int64, url string) error {
	_, err := db.ExecContext(ctx, `
UPDATE applicants SET resume_url = ?, updated_at = ? WHERE id = ?;`, url, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("set applicant resume: %w", err)
	}
	return nil
}

func SetApplicantPortfolio(ctx context.Context, db *sql.DB, id int64, urls []string) error {
	b, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
UPDATE applicants SET portfolio_files = ?, updated_at = ? WHERE id = ?;`, string(b), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("set applicant portfolio: %w", err)
	}
	return nil
}

type ListApplicantsOpts struct {
	PositionID    int64
	Qualification string
	OrderByScore  bool
}

func ListApplicants(ctx context.Context, db *sql.DB, opts ListApplicantsOpts) ([]Applicant, error) {
	query := `SELECT ` + applicantCols + ` FROM applicants WHERE 1=1`
	var args []any
	if opts.PositionID > 0 {
		query += ` AND position_id = ?`
		args = append(args, opts.PositionID)
	}
	if opts.Qualification != "" && opts.Qualification != "all" {
		query += ` AND qualification_status = ?`
		args = append(args, opts.Qualification)
	}
	if opts.OrderByScore {
		query += ` ORDER BY score DESC, id DESC;`
	} else {
		query += ` ORDER BY id DESC;`
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	var out []Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func QualifyApplicant(ctx context.Context, db *sql.DB, id int64, score int, notes string) (Applicant, error) {
	res, err := db.ExecContext(ctx, `
UPDATE applicants
SET qualification_status = 'qualified', score = ?, evaluation_notes = ?, updated_at = ?
WHERE id = ?;`, score, nullable(notes), nowUTC(), id)
	if err != nil {
		return Applicant{}, fmt.Errorf("qualify applicant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Applicant{}, err
	}
	if n == 0 {
		return Applicant{}, hireerr.ErrNotFound
	}
	return FindApplicantByID(ctx, db, id)
}

func RejectApplicant(ctx context.Context, db *sql.DB, id int64, notes string) (Applicant, error) {
	res, err := db.ExecContext(ctx, `
UPDATE applicants
SET qualification_status = 'rejected', evaluation_notes = ?, updated_at = ?
WHERE id = ?;`, nullable(notes), nowUTC(), id)
	if err != nil {
		return Applicant{}, fmt.Errorf("reject applicant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Applicant{}, err
	}
	if n == 0 {
		return Applicant{}, hireerr.ErrNotFound
	}
	return FindApplicantByID(ctx, db, id)
}

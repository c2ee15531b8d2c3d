package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type JobDescription struct {
	ID           int64  `json:"id"`
	PositionID   int64  `json:"position_id"`
	Content      string `json:"content"`
	Version      int    `json:"version_number"`
	IsCurrent    bool   `json:"is_current_version"`
	Author       string `json:"author"`
	HRApproved   bool   `json:"hr_approved"`
	HRApprovedAt string `json:"hr_approved_at,omitempty"`
	HRFeedback   string `json:"hr_feedback,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

const jdCols = `id, position_id, content, version_number, is_current_version,
author, hr_approved, hr_approved_at, hr_feedback, published_at, created_at, updated_at`

func scanJD(row interface{ Scan(...any) error }) (JobDescription, error) {
	var jd JobDescription
	var current, approved int
	var approvedAt, feedback, publishedAt sql.NullString
	err := row.Scan(
		&jd.ID, &jd.PositionID, &jd.Content, &jd.Version, &current,
		&jd.Author, &approved, &approvedAt, &feedback, &publishedAt,
		&jd.CreatedAt, &jd.UpdatedAt,
	)
	if err != nil {
		return JobDescription{}, err
	}
	jd.IsCurrent = current != 0
	jd.HRApproved = approved != 0
	jd.HRApprovedAt = textOrEmpty(approvedAt)
	jd.HRFeedback = textOrEmpty(feedback)
	jd.PublishedAt = textOrEmpty(publishedAt)
	return jd, nil
}

func FindJDByID(ctx context.Context, db *sql.DB, id int64) (JobDescription, error) {
	row := db.QueryRowContext(ctx, `SELECT `+jdCols+` FROM job_descriptions WHERE id = ?;`, id)
	jd, err := scanJD(row)
	if errors.Is(err, sql.ErrNoRows) {
		return JobDescription{}, hireerr.ErrNotFound
	}
	if err != nil {
		return JobDescription{}, fmt.Errorf("find jd: %w", err)
	}
	return jd, nil
}

func FindCurrentJD(ctx context.Context, db *sql.DB, positionID int64) (JobDescription, bool, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+jdCols+` FROM job_descriptions
WHERE position_id = ? AND is_current_version = 1;`, positionID)
	jd, err := scanJD(row)
	if errors.Is(err, sql.ErrNoRows) {
		return JobDescription{}, false, nil
	}
	if err != nil {
		return JobDescription{}, false, fmt.Errorf("find current jd: %w", err)
	}
	return jd, true, nil
}

// CreateInitialJD inserts version 1 as the current version and advances the
// owning position leader_completed -> job_desc_generated, atomically. A lost
// race on the stage guard rolls the insert back.
func CreateInitialJD(ctx context.Context, db *sql.DB, positionID int64, content, author string) (JobDescription, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return JobDescription{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := nowUTC()
	res, err := tx.ExecContext(ctx, `
INSERT INTO job_descriptions(position_id, content, version_number,
  is_current_version, author, created_at, updated_at)
VALUES(?,?,1,1,?,?,?);`, positionID, content, author, now, now)
	if err != nil {
		return JobDescription{}, fmt.Errorf("insert jd: %w", err)
	}
	id, _ := res.LastInsertId()

	ok, err := advancePositionStage(ctx, tx, positionID, "leader_completed", "job_desc_generated")
	if err != nil {
		return JobDescription{}, err
	}
	if !ok {
		return JobDescription{}, hireerr.ErrPreconditionFailed
	}

	if err := tx.Commit(); err != nil {
		return JobDescription{}, err
	}
	return JobDescription{
		ID: id, PositionID: positionID, Content: content, Version: 1,
		IsCurrent: true, Author: author, CreatedAt: now, UpdatedAt: now,
	}, nil
}

// ReplaceJDContent edits the current version in place. Pre-approval edits do
// not fork history; approval and publication flags are untouched.
func ReplaceJDContent(ctx context.Context, db *sql.DB, jdID int64, content string) (JobDescription, error) {
	res, err := db.ExecContext(ctx, `
UPDATE job_descriptions SET content = ?, updated_at = ?
WHERE id = ? AND is_current_version = 1;`, content, nowUTC(), jdID)
	if err != nil {
		return JobDescription{}, fmt.Errorf("replace jd content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return JobDescription{}, err
	}
	if n == 0 {
		return JobDescription{}, hireerr.ErrNotFound
	}
	return FindJDByID(ctx, db, jdID)
}

// ApproveJD flips hr_approved and advances the owning position to
// validation_pending in one transaction.
func ApproveJD(ctx context.Context, db *sql.DB, jdID int64, feedback string) (JobDescription, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return JobDescription{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := nowUTC()
	res, err := tx.ExecContext(ctx, `
UPDATE job_descriptions
SET hr_approved = 1, hr_approved_at = ?, hr_feedback = ?, updated_at = ?
WHERE id = ? AND hr_approved = 0;`, now, feedback, now, jdID)
	if err != nil {
		return JobDescription{}, fmt.Errorf("approve jd: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return JobDescription{}, err
	}
	if n == 0 {
		var approved int
		var positionID int64
		scanErr := tx.QueryRowContext(ctx,
			`SELECT hr_approved, position_id FROM job_descriptions WHERE id = ?;`, jdID,
		).Scan(&approved, &positionID)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return JobDescription{}, hireerr.ErrNotFound
		}
		if scanErr != nil {
			return JobDescription{}, scanErr
		}
		return JobDescription{}, &hireerr.InvalidStateTransition{
			Entity: "job description", Current: "approved", Attempted: "approved",
		}
	}

	var positionID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT position_id FROM job_descriptions WHERE id = ?;`, jdID,
	).Scan(&positionID); err != nil {
		return JobDescription{}, err
	}

	ok, err := advancePositionStage(ctx, tx, positionID, "job_desc_generated", "validation_pending")
	if err != nil {
		return JobDescription{}, err
	}
	if !ok {
		return JobDescription{}, hireerr.ErrPreconditionFailed
	}

	if err := tx.Commit(); err != nil {
		return JobDescription{}, err
	}
	return FindJDByID(ctx, db, jdID)
}

// PublishJD stamps published_at and makes the owning position active. It is
// legal only for an approved, unpublished current version.
func PublishJD(ctx context.Context, db *sql.DB, jdID int64) (JobDescription, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return JobDescription{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE job_descriptions SET published_at = ?, updated_at = ?
WHERE id = ? AND hr_approved = 1 AND published_at IS NULL;`, nowUTC(), nowUTC(), jdID)
	if err != nil {
		return JobDescription{}, fmt.Errorf("publish jd: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return JobDescription{}, err
	}
	if n == 0 {
		var approved int
		var published sql.NullString
		scanErr := tx.QueryRowContext(ctx,
			`SELECT hr_approved, published_at FROM job_descriptions WHERE id = ?;`, jdID,
		).Scan(&approved, &published)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return JobDescription{}, hireerr.ErrNotFound
		}
		if scanErr != nil {
			return JobDescription{}, scanErr
		}
		if published.Valid {
			return JobDescription{}, &hireerr.InvalidStateTransition{
				Entity: "job description", Current: "published", Attempted: "published",
			}
		}
		// Not approved: publishing an unapproved JD is a precondition failure,
		// and published_at stays null.
		return JobDescription{}, hireerr.ErrPreconditionFailed
	}

	var positionID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT position_id FROM job_descriptions WHERE id = ?;`, jdID,
	).Scan(&positionID); err != nil {
		return JobDescription{}, err
	}

	ok, err := advancePositionStage(ctx, tx, positionID, "validation_pending", "active")
	if err != nil {
		return JobDescription{}, err
	}
	if !ok {
		return JobDescription{}, hireerr.ErrPreconditionFailed
	}

	if err := tx.Commit(); err != nil {
		return JobDescription{}, err
	}
	return FindJDByID(ctx, db, jdID)
}

// RecordJDFeedback stores rejection feedback on an unapproved current version.
// Deliberately stage-neutral: the position stays at job_desc_generated so the
// authoring loop can run again.
func RecordJDFeedback(ctx context.Context, db *sql.DB, jdID int64, feedback string) (JobDescription, error) {
	res, err := db.ExecContext(ctx, `
UPDATE job_descriptions SET hr_feedback = ?, updated_at = ?
WHERE id = ? AND hr_approved = 0;`, feedback, nowUTC(), jdID)
	if err != nil {
		return JobDescription{}, fmt.Errorf("record jd feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return JobDescription{}, err
	}
	if n == 0 {
		var approved int
		scanErr := db.QueryRowContext(ctx,
			`SELECT hr_approved FROM job_descriptions WHERE id = ?;`, jdID,
		).Scan(&approved)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return JobDescription{}, hireerr.ErrNotFound
		}
		if scanErr != nil {
			return JobDescription{}, scanErr
		}
		return JobDescription{}, &hireerr.InvalidStateTransition{
			Entity: "job description", Current: "approved", Attempted: "rejected",
		}
	}
	return FindJDByID(ctx, db, jdID)
}

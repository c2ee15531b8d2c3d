package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"talentflow-engine/internal/hireerr"
)

type Position struct {
	ID               int64             `json:"id"`
	CompanyID        int64             `json:"company_id"`
	PositionCode     string            `json:"position_code"`
	PositionName     string            `json:"position_name"`
	Area             string            `json:"area"`
	Seniority        string            `json:"seniority"`
	LeaderName       string            `json:"leader_name"`
	LeaderEmail      string            `json:"leader_email"`
	LeaderPosition   string            `json:"leader_position,omitempty"`
	SalaryRange      string            `json:"salary_range"`
	EquityIncluded   bool              `json:"equity_included"`
	EquityDetails    string            `json:"equity_details,omitempty"`
	ContractType     string            `json:"contract_type"`
	Timeline         string            `json:"timeline"`
	PositionType     string            `json:"position_type"`
	CriticalNotes    string            `json:"critical_notes,omitempty"`
	WorkArrangement  string            `json:"work_arrangement,omitempty"`
	CoreHours        string            `json:"core_hours,omitempty"`
	TeamSize         string            `json:"team_size,omitempty"`
	AutonomyLevel    string            `json:"autonomy_level,omitempty"`
	SuccessKPI       string            `json:"success_kpi,omitempty"`
	AreaSpecificData map[string]string `json:"area_specific_data"`
	WorkflowStage    string            `json:"workflow_stage"`
	HRCompletedAt    string            `json:"hr_completed_at,omitempty"`
	LeaderNotifiedAt string            `json:"leader_notified_at,omitempty"`
	LeaderDoneAt     string            `json:"leader_completed_at,omitempty"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
}

// LeaderSpecs is the leader-input payload written by the leader_completed
// transition.
type LeaderSpecs struct {
	WorkArrangement  string
	CoreHours        string
	TeamSize         string
	AutonomyLevel    string
	SuccessKPI       string
	AreaSpecificData map[string]string
}

const positionCols = `id, company_id, position_code, position_name, area, seniority,
leader_name, leader_email, leader_position, salary_range, equity_included,
equity_details, contract_type, timeline, position_type, critical_notes,
work_arrangement, core_hours, team_size, autonomy_level, success_kpi,
area_specific_data, workflow_stage, hr_completed_at, leader_notified_at,
leader_completed_at, created_at, updated_at`

func scanPosition(row interface{ Scan(...any) error }) (Position, error) {
	var p Position
	var leaderPos, equity, notes, wa, ch, ts, al, kpi sql.NullString
	var hrAt, lnAt, lcAt sql.NullString
	var areaJSON string
	var equityInc int
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.PositionCode, &p.PositionName, &p.Area, &p.Seniority,
		&p.LeaderName, &p.LeaderEmail, &leaderPos, &p.SalaryRange, &equityInc,
		&equity, &p.ContractType, &p.Timeline, &p.PositionType, &notes,
		&wa, &ch, &ts, &al, &kpi,
		&areaJSON, &p.WorkflowStage, &hrAt, &lnAt,
		&lcAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Position{}, err
	}
	p.LeaderPosition = textOrEmpty(leaderPos)
	p.EquityIncluded = equityInc != 0
	p.EquityDetails = textOrEmpty(equity)
	p.CriticalNotes = textOrEmpty(notes)
	p.WorkArrangement = textOrEmpty(wa)
	p.CoreHours = textOrEmpty(ch)
	p.TeamSize = textOrEmpty(ts)
	p.AutonomyLevel = textOrEmpty(al)
	p.SuccessKPI = textOrEmpty(kpi)
	p.HRCompletedAt = textOrEmpty(hrAt)
	p.LeaderNotifiedAt = textOrEmpty(lnAt)
	p.LeaderDoneAt = textOrEmpty(lcAt)
	p.AreaSpecificData = map[string]string{}
	_ = json.Unmarshal([]byte(areaJSON), &p.AreaSpecificData)
	return p, nil
}

// InsertPosition creates a position already at hr_completed with its entry
// timestamp stamped. The position_code unique index is the duplicate guard.
func InsertPosition(ctx context.Context, db *sql.DB, p Position) (Position, error) {
	now := nowUTC()
	equityInc := 0
	if p.EquityIncluded {
		equityInc = 1
	}
	res, err := db.ExecContext(ctx, `
INSERT INTO positions(company_id, position_code, position_name, area, seniority,
  leader_name, leader_email, leader_position, salary_range, equity_included,
  equity_details, contract_type, timeline, position_type, critical_notes,
  workflow_stage, hr_completed_at, created_at, updated_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,'hr_completed',?,?,?);`,
		p.CompanyID, p.PositionCode, p.PositionName, p.Area, p.Seniority,
		p.LeaderName, p.LeaderEmail, nullable(p.LeaderPosition), p.SalaryRange, equityInc,
		nullable(p.EquityDetails), p.ContractType, p.Timeline, p.PositionType,
		nullable(p.CriticalNotes), now, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return Position{}, &hireerr.DuplicateError{Field: "position_code", Value: p.PositionCode}
		}
		return Position{}, fmt.Errorf("insert position: %w", err)
	}
	p.ID, _ = res.LastInsertId()
	p.WorkflowStage = "hr_completed"
	p.HRCompletedAt = now
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func FindPositionByID(ctx context.Context, db *sql.DB, id int64) (Position, error) {
	row := db.QueryRowContext(ctx, `SELECT `+positionCols+` FROM positions WHERE id = ?;`, id)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Position{}, fmt.Errorf("find position: %w", err)
	}
	return p, nil
}

func FindPositionByCode(ctx context.Context, db *sql.DB, code string) (Position, error) {
	row := db.QueryRowContext(ctx, `SELECT `+positionCols+` FROM positions WHERE position_code = ?;`, code)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, hireerr.ErrNotFound
	}
	if err != nil {
		return Position{}, fmt.Errorf("find position by code: %w", err)
	}
	return p, nil
}

type ListPositionsOpts struct {
	CompanyID int64
	Stage     string
	Area      string
}

func ListPositions(ctx context.Context, db *sql.DB, opts ListPositionsOpts) ([]Position, error) {
	query := `SELECT ` + positionCols + ` FROM positions WHERE 1=1`
	var args []any
	if opts.CompanyID > 0 {
		query += ` AND company_id = ?`
		args = append(args, opts.CompanyID)
	}
	if opts.Stage != "" && opts.Stage != "all" {
		query += ` AND workflow_stage = ?`
		args = append(args, opts.Stage)
	}
	if opts.Area != "" && opts.Area != "all" {
		query += ` AND area = ?`
		args = append(args, opts.Area)
	}
	query += ` ORDER BY id DESC;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkLeaderNotified advances hr_completed -> leader_notified. False means the
// guard failed: either the position is gone or another attempt won the race.
func MarkLeaderNotified(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `
UPDATE positions
SET workflow_stage = 'leader_notified', leader_notified_at = ?, updated_at = ?
WHERE id = ? AND workflow_stage = 'hr_completed';`, nowUTC(), nowUTC(), id)
	if err != nil {
		return false, fmt.Errorf("mark leader notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ApplyLeaderSpecs writes the leader payload and advances
// leader_notified -> leader_completed in one guarded statement.
func ApplyLeaderSpecs(ctx context.Context, db *sql.DB, id int64, specs LeaderSpecs) (bool, error) {
	areaJSON, err := json.Marshal(specs.AreaSpecificData)
	if err != nil {
		return false, fmt.Errorf("encode area data: %w", err)
	}
	now := nowUTC()
	res, err := db.ExecContext(ctx, `
UPDATE positions
SET work_arrangement = ?, core_hours = ?, team_size = ?, autonomy_level = ?,
    success_kpi = ?, area_specific_data = ?,
    workflow_stage = 'leader_completed', leader_completed_at = ?, updated_at = ?
WHERE id = ? AND workflow_stage = 'leader_notified';`,
		nullable(specs.WorkArrangement), nullable(specs.CoreHours), nullable(specs.TeamSize),
		nullable(specs.AutonomyLevel), nullable(specs.SuccessKPI), string(areaJSON),
		now, now, id)
	if err != nil {
		return false, fmt.Errorf("apply leader specs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// advancePositionStage is the generic guarded stage write used by the job
// description gate inside its transactions.
func advancePositionStage(ctx context.Context, tx *sql.Tx, id int64, from, to string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
UPDATE positions SET workflow_stage = ?, updated_at = ?
WHERE id = ? AND workflow_stage = ?;`, to, nowUTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("advance position %d %s->%s: %w", id, from, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package store

import (
	"database/sql"
)

func Migrate(db *sql.DB) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS leads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contact_name TEXT NOT NULL,
  contact_email TEXT NOT NULL,
  contact_phone TEXT,
  contact_position TEXT,
  company_name TEXT NOT NULL,
  industry TEXT,
  company_size TEXT,
  intent TEXT NOT NULL,
  role_title TEXT,
  seniority TEXT,
  work_mode TEXT,
  urgency TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS companies (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source_lead_id INTEGER,
  company_name TEXT NOT NULL,
  company_domain TEXT NOT NULL DEFAULT '',
  industry TEXT,
  company_size TEXT,
  primary_contact_name TEXT NOT NULL,
  primary_contact_email TEXT NOT NULL,
  primary_contact_phone TEXT,
  primary_contact_position TEXT,
  subscription_status TEXT NOT NULL DEFAULT 'trial',
  invited_at TEXT,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS positions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  company_id INTEGER NOT NULL REFERENCES companies(id),
  position_code TEXT NOT NULL,
  position_name TEXT NOT NULL,
  area TEXT NOT NULL,
  seniority TEXT NOT NULL,
  leader_name TEXT NOT NULL,
  leader_email TEXT NOT NULL,
  leader_position TEXT,
  salary_range TEXT NOT NULL,
  equity_included INTEGER NOT NULL DEFAULT 0,
  equity_details TEXT,
  contract_type TEXT NOT NULL,
  timeline TEXT NOT NULL,
  position_type TEXT NOT NULL,
  critical_notes TEXT,
  work_arrangement TEXT,
  core_hours TEXT,
  team_size TEXT,
  autonomy_level TEXT,
  success_kpi TEXT,
  area_specific_data TEXT NOT NULL DEFAULT '{}',
  workflow_stage TEXT NOT NULL DEFAULT 'hr_completed',
  hr_completed_at TEXT,
  leader_notified_at TEXT,
  leader_completed_at TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS job_descriptions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  position_id INTEGER NOT NULL REFERENCES positions(id),
  content TEXT NOT NULL,
  version_number INTEGER NOT NULL DEFAULT 1,
  is_current_version INTEGER NOT NULL DEFAULT 1,
  author TEXT NOT NULL DEFAULT '',
  hr_approved INTEGER NOT NULL DEFAULT 0,
  hr_approved_at TEXT,
  hr_feedback TEXT,
  published_at TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applicants (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  position_id INTEGER NOT NULL REFERENCES positions(id),
  full_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  linkedin_url TEXT,
  portfolio_url TEXT,
  location TEXT,
  cover_letter TEXT,
  resume_url TEXT,
  portfolio_files TEXT NOT NULL DEFAULT '[]',
  qualification_status TEXT NOT NULL DEFAULT 'applied',
  score INTEGER NOT NULL DEFAULT 0,
  evaluation_notes TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS notifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  dedup_key TEXT NOT NULL,
  template TEXT NOT NULL,
  recipient_email TEXT NOT NULL,
  recipient_name TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL,
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'queued',
  delivery_id TEXT,
  error_message TEXT,
  attempts INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  sent_at TEXT
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS uploads (
  key TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  filename TEXT NOT NULL,
  content_type TEXT NOT NULL,
  bytes BLOB NOT NULL,
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_positions_code
ON positions(position_code);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_source_lead
ON companies(source_lead_id)
WHERE source_lead_id IS NOT NULL;
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup
ON notifications(dedup_key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_leads_email
ON leads(contact_email);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jds_position_current
ON job_descriptions(position_id, is_current_version);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applicants_position
ON applicants(position_id);
`); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

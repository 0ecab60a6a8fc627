package store

import "database/sql"

// Migrate brings the schema up to the current version. Versions are tracked
// in sqlite's user_version pragma.
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
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  external_id TEXT NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location_city TEXT NOT NULL DEFAULT '',
  location_state TEXT NOT NULL DEFAULT '',
  work_type TEXT NOT NULL DEFAULT '',
  salary_min INTEGER,
  salary_max INTEGER,
  salary_currency TEXT NOT NULL DEFAULT 'USD',
  experience_level TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  skills TEXT NOT NULL DEFAULT '[]',
  description TEXT NOT NULL DEFAULT '',
  apply_url TEXT NOT NULL DEFAULT '',
  company_logo TEXT NOT NULL DEFAULT '',
  posted_at TEXT,
  scraped_at TEXT NOT NULL,
  expires_at TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  search_text TEXT
);
`); err != nil {
		return err
	}

	// search_text is mirrored into this index by RebuildSearchText after
	// each ingest run; the jobs row is the source of truth.
	if _, err := tx.Exec(`
CREATE VIRTUAL TABLE IF NOT EXISTS jobs_fts USING fts5(
  body,
  job_id UNINDEXED
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS analytics (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  event TEXT NOT NULL,
  page TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_source_external ON jobs(source, external_id);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_posted ON jobs(posted_at);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_state ON jobs(location_state);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_active ON jobs(is_active);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_work_type ON jobs(work_type);`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_event ON analytics(event);`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics(created_at);`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	logger *zap.Logger
}

func New(storagePath string, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", storagePath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &DB{
		DB:     db,
		logger: logger,
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established", zap.String("path", storagePath))
	return database, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			webhook_url TEXT,
			active_clock_in_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sites (
			id TEXT PRIMARY KEY,
			site_number TEXT NOT NULL,
			title TEXT NOT NULL,
			address TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			site_id TEXT NOT NULL REFERENCES sites(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			assigned_user_id TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending'
		)`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			clock_in_time TIMESTAMP NOT NULL,
			clock_out_time TIMESTAMP,
			job_id TEXT,
			site_id TEXT,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS submitted_weeks (
			user_id TEXT NOT NULL,
			week_identifier TEXT NOT NULL,
			submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, week_identifier)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_user ON time_entries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_clock_in ON time_entries(clock_in_time)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_assigned_user ON jobs(assigned_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_site ON jobs(site_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	db.logger.Info("Database migrations completed")
	return nil
}

func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.logger.Info("Database connection closed")
	return nil
}

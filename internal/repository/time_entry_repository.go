package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

type TimeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

const timeEntryColumns = "id, user_id, clock_in_time, clock_out_time, job_id, site_id, notes"

// ClockIn opens a new entry for the user. The user row's
// active_clock_in_id is set inside the same transaction, which is what
// enforces the at-most-one-open-entry protocol.
func (r *TimeEntryRepository) ClockIn(userID string) (*models.TimeEntry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var activeID sql.NullString
	err = tx.QueryRow("SELECT active_clock_in_id FROM users WHERE id = ?", userID).Scan(&activeID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if activeID.Valid {
		return nil, apperr.State("user %s is already clocked in", userID)
	}

	entry := &models.TimeEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ClockInTime: time.Now(),
	}

	_, err = tx.Exec(
		"INSERT INTO time_entries (id, user_id, clock_in_time) VALUES (?, ?, ?)",
		entry.ID, entry.UserID, entry.ClockInTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert time entry: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET active_clock_in_id = ? WHERE id = ?", entry.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to update active clock-in: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry, nil
}

// ClockOut closes the user's open entry, optionally attaching a job.
func (r *TimeEntryRepository) ClockOut(userID string, jobID *string) (*models.TimeEntry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	activeID, err := activeClockInID(tx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if jobID != nil {
		_, err = tx.Exec("UPDATE time_entries SET clock_out_time = ?, job_id = ? WHERE id = ?", now, *jobID, activeID)
	} else {
		_, err = tx.Exec("UPDATE time_entries SET clock_out_time = ? WHERE id = ?", now, activeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close time entry: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET active_clock_in_id = NULL WHERE id = ?", userID); err != nil {
		return nil, fmt.Errorf("failed to clear active clock-in: %w", err)
	}

	entry, err := scanEntry(tx.QueryRow(
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE id = ?", activeID,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry, nil
}

// CompleteJobAndContinue closes the user's open entry against a job and
// immediately opens a new entry at the same instant, so no worked time is
// lost between consecutive jobs.
func (r *TimeEntryRepository) CompleteJobAndContinue(userID, jobID string) (*models.TimeEntry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	activeID, err := activeClockInID(tx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := tx.Exec("UPDATE time_entries SET clock_out_time = ?, job_id = ? WHERE id = ?", now, jobID, activeID); err != nil {
		return nil, fmt.Errorf("failed to close time entry: %w", err)
	}

	newID := uuid.NewString()
	if _, err := tx.Exec(
		"INSERT INTO time_entries (id, user_id, clock_in_time) VALUES (?, ?, ?)",
		newID, userID, now,
	); err != nil {
		return nil, fmt.Errorf("failed to insert continuation entry: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET active_clock_in_id = ? WHERE id = ?", newID, userID); err != nil {
		return nil, fmt.Errorf("failed to update active clock-in: %w", err)
	}

	completed, err := scanEntry(tx.QueryRow(
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE id = ?", activeID,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return completed, nil
}

func (r *TimeEntryRepository) GetByID(id string) (*models.TimeEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(
		"SELECT "+timeEntryColumns+" FROM time_entries WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("time entry", id)
	}
	return entry, err
}

// GetByUserID returns all of a user's entries, optionally bounded by
// [startDate, endDate]. The end bound is widened to the end of its day.
// No store ordering is assumed; callers sort.
func (r *TimeEntryRepository) GetByUserID(userID string, startDate, endDate *time.Time) ([]models.TimeEntry, error) {
	query := "SELECT " + timeEntryColumns + " FROM time_entries WHERE user_id = ?"
	args := []interface{}{userID}

	if startDate != nil {
		query += " AND clock_in_time >= ?"
		args = append(args, *startDate)
	}
	if endDate != nil {
		end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, int(999*time.Millisecond), endDate.Location())
		query += " AND clock_in_time <= ?"
		args = append(args, end)
	}

	return r.queryEntries(query, args...)
}

// GetAllForAdmin returns entries across users for reporting, newest
// first, optionally bounded by date range and filtered to a user set.
func (r *TimeEntryRepository) GetAllForAdmin(startDate, endDate *time.Time, userIDs []string) ([]models.TimeEntry, error) {
	query := "SELECT " + timeEntryColumns + " FROM time_entries WHERE 1=1"
	var args []interface{}

	if len(userIDs) > 0 {
		query += " AND user_id IN ("
		for i, id := range userIDs {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, id)
		}
		query += ")"
	}
	if startDate != nil {
		query += " AND clock_in_time >= ?"
		args = append(args, *startDate)
	}
	if endDate != nil {
		end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, int(999*time.Millisecond), endDate.Location())
		query += " AND clock_in_time <= ?"
		args = append(args, end)
	}
	query += " ORDER BY clock_in_time DESC"

	return r.queryEntries(query, args...)
}

// Update applies a partial edit. The resulting time range is validated
// before any write: a clock-out before the clock-in is rejected with a
// ValidationError and nothing is persisted.
func (r *TimeEntryRepository) Update(id string, update *models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	current, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	clockIn := current.ClockInTime
	clockOut := current.ClockOutTime
	if update.ClockInTime != nil {
		clockIn = *update.ClockInTime
	}
	if update.ClockOutTime != nil {
		clockOut = update.ClockOutTime
	}
	if clockOut != nil && clockOut.Before(clockIn) {
		return nil, apperr.Validation("clock out time cannot be before clock in time")
	}

	setParts := []string{}
	args := []interface{}{}

	if update.ClockInTime != nil {
		setParts = append(setParts, "clock_in_time = ?")
		args = append(args, *update.ClockInTime)
	}
	if update.ClockOutTime != nil {
		setParts = append(setParts, "clock_out_time = ?")
		args = append(args, *update.ClockOutTime)
	}
	if update.SiteID != nil {
		setParts = append(setParts, "site_id = ?")
		args = append(args, *update.SiteID)
	}
	if update.Notes != nil {
		setParts = append(setParts, "notes = ?")
		args = append(args, *update.Notes)
	}

	if len(setParts) == 0 {
		return current, nil
	}

	setClause := setParts[0]
	for i := 1; i < len(setParts); i++ {
		setClause += ", " + setParts[i]
	}

	args = append(args, id)
	if _, err := r.db.Exec("UPDATE time_entries SET "+setClause+" WHERE id = ?", args...); err != nil {
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}

	return r.GetByID(id)
}

func (r *TimeEntryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("time entry", id)
	}
	return nil
}

func (r *TimeEntryRepository) queryEntries(query string, args ...interface{}) ([]models.TimeEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		var entry models.TimeEntry
		var clockOut sql.NullTime
		var jobID, siteID, notes sql.NullString

		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ClockInTime,
			&clockOut, &jobID, &siteID, &notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		if clockOut.Valid {
			t := clockOut.Time
			entry.ClockOutTime = &t
		}
		if jobID.Valid {
			entry.JobID = &jobID.String
		}
		if siteID.Valid {
			entry.SiteID = &siteID.String
		}
		if notes.Valid {
			entry.Notes = &notes.String
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entries, nil
}

func activeClockInID(tx *sql.Tx, userID string) (string, error) {
	var activeID sql.NullString
	err := tx.QueryRow("SELECT active_clock_in_id FROM users WHERE id = ?", userID).Scan(&activeID)
	if err == sql.ErrNoRows {
		return "", apperr.NotFound("user", userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user: %w", err)
	}
	if !activeID.Valid {
		return "", apperr.State("user %s is not clocked in", userID)
	}
	return activeID.String, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	var clockOut sql.NullTime
	var jobID, siteID, notes sql.NullString

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.ClockInTime,
		&clockOut, &jobID, &siteID, &notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan time entry: %w", err)
	}
	if clockOut.Valid {
		t := clockOut.Time
		entry.ClockOutTime = &t
	}
	if jobID.Valid {
		entry.JobID = &jobID.String
	}
	if siteID.Valid {
		entry.SiteID = &siteID.String
	}
	if notes.Valid {
		entry.Notes = &notes.String
	}
	return &entry, nil
}

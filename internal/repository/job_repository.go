package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = "id, site_id, title, description, assigned_user_id, start_date, end_date, status"

func (r *JobRepository) Create(req *models.CreateJobRequest) (*models.Job, error) {
	job := &models.Job{
		ID:             uuid.NewString(),
		SiteID:         req.SiteID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedUserID: req.AssignedUserID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         models.JobStatusPending,
	}

	_, err := r.db.Exec(
		"INSERT INTO jobs ("+jobColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		job.ID, job.SiteID, job.Title, job.Description,
		job.AssignedUserID, job.StartDate, job.EndDate, job.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.QueryRow(
		"SELECT "+jobColumns+" FROM jobs WHERE id = ?", id,
	).Scan(
		&job.ID, &job.SiteID, &job.Title, &job.Description,
		&job.AssignedUserID, &job.StartDate, &job.EndDate, &job.Status,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (r *JobRepository) GetAll() ([]models.Job, error) {
	return r.queryJobs("SELECT " + jobColumns + " FROM jobs")
}

func (r *JobRepository) GetBySiteID(siteID string) ([]models.Job, error) {
	return r.queryJobs(
		"SELECT "+jobColumns+" FROM jobs WHERE site_id = ? ORDER BY start_date DESC", siteID,
	)
}

// GetUpcomingForUser returns the user's jobs that are not completed, have
// not ended, and start within the next seven days, joined with the parent
// site's display fields and sorted by start date.
func (r *JobRepository) GetUpcomingForUser(userID string, now time.Time) ([]models.JobWithSiteInfo, error) {
	rows, err := r.db.Query(
		`SELECT j.id, j.site_id, j.title, j.description, j.assigned_user_id,
		        j.start_date, j.end_date, j.status, s.title, s.address
		 FROM jobs j LEFT JOIN sites s ON s.id = j.site_id
		 WHERE j.assigned_user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming jobs: %w", err)
	}
	defer rows.Close()

	today := now.Format("2006-01-02")
	horizon := now.AddDate(0, 0, 7).Format("2006-01-02")

	var jobs []models.JobWithSiteInfo
	for rows.Next() {
		var job models.JobWithSiteInfo
		var siteTitle, siteAddress sql.NullString
		if err := rows.Scan(
			&job.ID, &job.SiteID, &job.Title, &job.Description,
			&job.AssignedUserID, &job.StartDate, &job.EndDate, &job.Status,
			&siteTitle, &siteAddress,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}

		if job.Status == models.JobStatusCompleted {
			continue
		}
		if job.EndDate < today {
			continue
		}
		if job.StartDate > horizon {
			continue
		}

		job.SiteTitle = "Unknown Site"
		if siteTitle.Valid {
			job.SiteTitle = siteTitle.String
		}
		job.SiteAddress = "N/A"
		if siteAddress.Valid {
			job.SiteAddress = siteAddress.String
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartDate < jobs[j].StartDate
	})
	return jobs, nil
}

func (r *JobRepository) Update(id string, update *models.UpdateJobRequest) (*models.Job, error) {
	if update.Status != nil {
		switch *update.Status {
		case models.JobStatusPending, models.JobStatusInProgress, models.JobStatusCompleted:
		default:
			return nil, apperr.Validation("invalid job status %q", *update.Status)
		}
	}

	setParts := []string{}
	args := []interface{}{}

	if update.SiteID != nil {
		setParts = append(setParts, "site_id = ?")
		args = append(args, *update.SiteID)
	}
	if update.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *update.Description)
	}
	if update.AssignedUserID != nil {
		setParts = append(setParts, "assigned_user_id = ?")
		args = append(args, *update.AssignedUserID)
	}
	if update.StartDate != nil {
		setParts = append(setParts, "start_date = ?")
		args = append(args, *update.StartDate)
	}
	if update.EndDate != nil {
		setParts = append(setParts, "end_date = ?")
		args = append(args, *update.EndDate)
	}
	if update.Status != nil {
		setParts = append(setParts, "status = ?")
		args = append(args, *update.Status)
	}

	if len(setParts) == 0 {
		return r.GetByID(id)
	}

	setClause := setParts[0]
	for i := 1; i < len(setParts); i++ {
		setClause += ", " + setParts[i]
	}

	args = append(args, id)
	result, err := r.db.Exec("UPDATE jobs SET "+setClause+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperr.NotFound("job", id)
	}

	return r.GetByID(id)
}

func (r *JobRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("job", id)
	}
	return nil
}

func (r *JobRepository) queryJobs(query string, args ...interface{}) ([]models.Job, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(
			&job.ID, &job.SiteID, &job.Title, &job.Description,
			&job.AssignedUserID, &job.StartDate, &job.EndDate, &job.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return jobs, nil
}

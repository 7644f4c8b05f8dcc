package models

import "time"

// Job lifecycle states.
const (
	JobStatusPending    = "Pending"
	JobStatusInProgress = "In Progress"
	JobStatusCompleted  = "Completed"
)

// TimeEntry is one clock session. ClockOutTime is nil while the user is
// still clocked in; such an entry contributes nothing to aggregate totals.
type TimeEntry struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ClockInTime  time.Time  `json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time,omitempty"`
	JobID        *string    `json:"job_id,omitempty"`
	SiteID       *string    `json:"site_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// Open reports whether the entry has no clock-out yet.
func (e *TimeEntry) Open() bool {
	return e.ClockOutTime == nil
}

// Site is a physical work location.
type Site struct {
	ID          string `json:"id"`
	SiteNumber  string `json:"site_number"`
	Title       string `json:"title"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
}

// Job is a task at a site assigned to one user for a date range.
// StartDate and EndDate are YYYY-MM-DD strings.
type Job struct {
	ID             string `json:"id"`
	SiteID         string `json:"site_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	AssignedUserID string `json:"assigned_user_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Status         string `json:"status"`
}

// JobWithSiteInfo is a Job joined with its parent site's display fields.
type JobWithSiteInfo struct {
	Job
	SiteTitle   string `json:"site_title"`
	SiteAddress string `json:"site_address"`
}

// User is an employee or administrator profile. ActiveClockInID points at
// the single open TimeEntry while the user is clocked in. SubmittedWeeks
// holds the week identifiers (Monday ISO dates) of archived timesheets;
// identifiers are only ever added, never removed.
type User struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	WebhookURL      *string  `json:"webhook_url,omitempty"`
	ActiveClockInID *string  `json:"active_clock_in_id,omitempty"`
	SubmittedWeeks  []string `json:"submitted_weeks"`
}

type UpdateTimeEntryRequest struct {
	ClockInTime  *time.Time `json:"clock_in_time,omitempty"`
	ClockOutTime *time.Time `json:"clock_out_time,omitempty"`
	SiteID       *string    `json:"site_id,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

type ClockOutRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	JobID  *string `json:"job_id,omitempty"`
}

type ClockInRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type CompleteJobRequest struct {
	UserID string `json:"user_id" binding:"required"`
	JobID  string `json:"job_id" binding:"required"`
}

type CreateJobRequest struct {
	SiteID         string `json:"site_id" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	AssignedUserID string `json:"assigned_user_id" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
}

type UpdateJobRequest struct {
	SiteID         *string `json:"site_id,omitempty"`
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	AssignedUserID *string `json:"assigned_user_id,omitempty"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	Status         *string `json:"status,omitempty"`
}

type CreateSiteRequest struct {
	SiteNumber  string `json:"site_number" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Role       string  `json:"role" binding:"required"`
	WebhookURL *string `json:"webhook_url,omitempty"`
}

type UpdateUserRequest struct {
	Username   *string `json:"username,omitempty"`
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	WebhookURL *string `json:"webhook_url,omitempty"`
}

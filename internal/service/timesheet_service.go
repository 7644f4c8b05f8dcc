package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/models"
	"github.com/crewclock/crewclock/internal/timesheet"
)

// Timesheets is the classified result of one aggregation cycle.
type Timesheets struct {
	Active   []timesheet.WeeklyBucket
	Archived []timesheet.WeeklyBucket
}

// snapshot is the immutable record set one aggregation cycle operates on.
// Concurrent edits elsewhere are only reflected on the next full fetch.
type snapshot struct {
	entries []models.TimeEntry
	jobs    []models.Job
	sites   []models.Site
	user    *models.User
}

// TimesheetService derives weekly timesheets from raw clock records.
// Aggregation itself is pure and synchronous; only the store fetches at
// the start of a cycle run concurrently.
type TimesheetService struct {
	entries EntryStore
	jobs    JobStore
	sites   SiteStore
	users   UserStore
	logger  *zap.Logger
}

func NewTimesheetService(
	entries EntryStore,
	jobs JobStore,
	sites SiteStore,
	users UserStore,
	logger *zap.Logger,
) *TimesheetService {
	return &TimesheetService{
		entries: entries,
		jobs:    jobs,
		sites:   sites,
		users:   users,
		logger:  logger,
	}
}

// ListTimesheets fetches a fresh snapshot for the user and buckets it into
// active and archived weeks. Buckets are derived on every call, never
// cached; callers own any memoization.
func (s *TimesheetService) ListTimesheets(userID string) (*Timesheets, error) {
	snap, err := s.fetchSnapshot(userID)
	if err != nil {
		return nil, err
	}

	buckets, err := timesheet.BuildWeeklyBuckets(snap.entries, snap.user.SubmittedWeeks, time.Now())
	if err != nil {
		return nil, err
	}

	result := &Timesheets{}
	for _, b := range buckets {
		if b.Archived {
			result.Archived = append(result.Archived, b)
		} else {
			result.Active = append(result.Active, b)
		}
	}

	s.logger.Debug("Timesheets aggregated",
		zap.String("user_id", userID),
		zap.Int("active_weeks", len(result.Active)),
		zap.Int("archived_weeks", len(result.Archived)),
	)
	return result, nil
}

// BuildWeekReport produces the allocation report for one of the user's
// weeks, the shared source for CSV export and webhook submission.
func (s *TimesheetService) BuildWeekReport(userID, weekIdentifier string) (*timesheet.WeekReport, *timesheet.WeeklyBucket, *models.User, error) {
	snap, err := s.fetchSnapshot(userID)
	if err != nil {
		return nil, nil, nil, err
	}

	buckets, err := timesheet.BuildWeeklyBuckets(snap.entries, snap.user.SubmittedWeeks, time.Now())
	if err != nil {
		return nil, nil, nil, err
	}

	var bucket *timesheet.WeeklyBucket
	for i := range buckets {
		if buckets[i].WeekIdentifier == weekIdentifier {
			bucket = &buckets[i]
			break
		}
	}
	if bucket == nil {
		return nil, nil, nil, apperr.NotFound("timesheet week", weekIdentifier)
	}

	lookups := timesheet.NewLookups(snap.jobs, snap.sites)
	report, err := timesheet.ProcessWeek(bucket, lookups)
	if err != nil {
		return nil, nil, nil, err
	}
	return report, bucket, snap.user, nil
}

// fetchSnapshot fans the four store reads out concurrently; there is no
// ordering dependency between them. Any failure fails the whole cycle.
func (s *TimesheetService) fetchSnapshot(userID string) (*snapshot, error) {
	var snap snapshot
	var entriesErr, jobsErr, sitesErr, userErr error

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		snap.entries, entriesErr = s.entries.GetByUserID(userID, nil, nil)
	}()
	go func() {
		defer wg.Done()
		snap.jobs, jobsErr = s.jobs.GetAll()
	}()
	go func() {
		defer wg.Done()
		snap.sites, sitesErr = s.sites.GetAll()
	}()
	go func() {
		defer wg.Done()
		snap.user, userErr = s.users.GetByID(userID)
	}()
	wg.Wait()

	for _, err := range []error{entriesErr, jobsErr, sitesErr, userErr} {
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reporting snapshot: %w", err)
		}
	}
	return &snap, nil
}

package service

import (
	"time"

	"github.com/crewclock/crewclock/internal/models"
	"github.com/crewclock/crewclock/internal/repository"
)

// ClockService wraps the clock-in/out protocol and timesheet entry edits.
type ClockService struct {
	entries *repository.TimeEntryRepository
	users   *repository.UserRepository
}

func NewClockService(entries *repository.TimeEntryRepository, users *repository.UserRepository) *ClockService {
	return &ClockService{entries: entries, users: users}
}

func (s *ClockService) ClockIn(userID string) (*models.TimeEntry, error) {
	return s.entries.ClockIn(userID)
}

func (s *ClockService) ClockOut(userID string, jobID *string) (*models.TimeEntry, error) {
	return s.entries.ClockOut(userID, jobID)
}

func (s *ClockService) CompleteJobAndContinue(userID, jobID string) (*models.TimeEntry, error) {
	return s.entries.CompleteJobAndContinue(userID, jobID)
}

// CurrentEntry returns the user's open entry, or nil when clocked out.
func (s *ClockService) CurrentEntry(userID string) (*models.TimeEntry, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.ActiveClockInID == nil {
		return nil, nil
	}
	return s.entries.GetByID(*user.ActiveClockInID)
}

func (s *ClockService) GetEntries(userID string, startDate, endDate *time.Time) ([]models.TimeEntry, error) {
	return s.entries.GetByUserID(userID, startDate, endDate)
}

func (s *ClockService) GetEntriesForAdmin(startDate, endDate *time.Time, userIDs []string) ([]models.TimeEntry, error) {
	return s.entries.GetAllForAdmin(startDate, endDate, userIDs)
}

func (s *ClockService) UpdateEntry(id string, update *models.UpdateTimeEntryRequest) (*models.TimeEntry, error) {
	return s.entries.Update(id, update)
}

func (s *ClockService) DeleteEntry(id string) error {
	return s.entries.Delete(id)
}

package service

import (
	"time"

	"github.com/crewclock/crewclock/internal/models"
)

// Narrow store interfaces consumed by the services. The sqlite
// repositories satisfy them; tests substitute in-memory fakes.

type EntryStore interface {
	GetByUserID(userID string, startDate, endDate *time.Time) ([]models.TimeEntry, error)
}

type JobStore interface {
	GetAll() ([]models.Job, error)
}

type SiteStore interface {
	GetAll() ([]models.Site, error)
}

type UserStore interface {
	GetByID(id string) (*models.User, error)
	AddSubmittedWeek(userID, weekIdentifier string) error
}

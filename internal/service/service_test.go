package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/export"
	"github.com/crewclock/crewclock/internal/models"
)

// In-memory store fakes standing in for the sqlite repositories.

type fakeEntryStore struct {
	entries []models.TimeEntry
}

func (f *fakeEntryStore) GetByUserID(userID string, _, _ *time.Time) ([]models.TimeEntry, error) {
	var out []models.TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeJobStore struct{ jobs []models.Job }

func (f *fakeJobStore) GetAll() ([]models.Job, error) { return f.jobs, nil }

type fakeSiteStore struct{ sites []models.Site }

func (f *fakeSiteStore) GetAll() ([]models.Site, error) { return f.sites, nil }

type fakeUserStore struct {
	user      *models.User
	submitted []string
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, apperr.NotFound("user", id)
	}
	u := *f.user
	u.SubmittedWeeks = append([]string(nil), f.submitted...)
	return &u, nil
}

func (f *fakeUserStore) AddSubmittedWeek(_, weekIdentifier string) error {
	for _, w := range f.submitted {
		if w == weekIdentifier {
			return nil
		}
	}
	f.submitted = append(f.submitted, weekIdentifier)
	return nil
}

type fakeSubmitter struct {
	calls []string
	err   error
}

func (f *fakeSubmitter) SubmitPayload(_ context.Context, url string, _ export.Payload) error {
	f.calls = append(f.calls, url)
	return f.err
}

func closedEntry(userID string, in time.Time, d time.Duration, siteID *string) models.TimeEntry {
	out := in.Add(d)
	return models.TimeEntry{UserID: userID, ClockInTime: in, ClockOutTime: &out, SiteID: siteID}
}

type fixture struct {
	entries   *fakeEntryStore
	users     *fakeUserStore
	submitter *fakeSubmitter
	sheets    *TimesheetService
	subs      *SubmissionService
}

func newFixture(t *testing.T, user *models.User, entries []models.TimeEntry) *fixture {
	t.Helper()
	siteID := "site-1"
	f := &fixture{
		entries:   &fakeEntryStore{entries: entries},
		users:     &fakeUserStore{user: user},
		submitter: &fakeSubmitter{},
	}
	jobs := &fakeJobStore{}
	sites := &fakeSiteStore{sites: []models.Site{{ID: siteID, Title: "Riverside Depot"}}}
	f.sheets = NewTimesheetService(f.entries, jobs, sites, f.users, zap.NewNop())
	f.subs = NewSubmissionService(f.sheets, f.users, f.submitter, t.TempDir(), zap.NewNop())
	return f
}

func TestListTimesheetsClassification(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Jo"}
	siteID := "site-1"
	oldWeek := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	thisWeek := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{
		closedEntry("u-1", oldWeek, 8*time.Hour, &siteID),
		closedEntry("u-1", thisWeek, 6*time.Hour, &siteID),
	})
	fx.users.submitted = []string{"2026-02-02"}

	sheets, err := fx.sheets.ListTimesheets("u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets.Archived) != 1 || sheets.Archived[0].WeekIdentifier != "2026-02-02" {
		t.Errorf("archived = %+v", sheets.Archived)
	}
	if len(sheets.Active) != 1 || sheets.Active[0].WeekIdentifier != "2026-02-09" {
		t.Errorf("active = %+v", sheets.Active)
	}
}

func TestBuildWeekReportUnknownWeek(t *testing.T) {
	fx := newFixture(t, &models.User{ID: "u-1", Name: "Jo"}, nil)

	_, _, _, err := fx.sheets.BuildWeekReport("u-1", "2026-02-02")
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSubmitWeekViaWebhook(t *testing.T) {
	url := "http://hooks.example/timesheet"
	user := &models.User{ID: "u-1", Name: "Jo", WebhookURL: &url}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{closedEntry("u-1", in, 8*time.Hour, &siteID)})

	result, err := fx.subs.SubmitWeek(context.Background(), "u-1", "2026-02-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != MethodWebhook {
		t.Errorf("method = %s, want %s", result.Method, MethodWebhook)
	}
	if len(fx.submitter.calls) != 1 || fx.submitter.calls[0] != url {
		t.Errorf("submitter calls = %v", fx.submitter.calls)
	}
	if len(fx.users.submitted) != 1 || fx.users.submitted[0] != "2026-02-02" {
		t.Errorf("submitted weeks = %v", fx.users.submitted)
	}
}

func TestSubmitWeekViaCSV(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Jo Bloggs"}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{closedEntry("u-1", in, 8*time.Hour, &siteID)})

	result, err := fx.subs.SubmitWeek(context.Background(), "u-1", "2026-02-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != MethodCSV {
		t.Errorf("method = %s, want %s", result.Method, MethodCSV)
	}
	if result.FilePath == "" {
		t.Fatal("expected a file path")
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
	if len(fx.submitter.calls) != 0 {
		t.Errorf("webhook must not be called without a configured URL")
	}
}

func TestSubmitWeekRejectsOpenEntries(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Jo"}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	entries := []models.TimeEntry{
		closedEntry("u-1", in, 4*time.Hour, &siteID),
		{UserID: "u-1", ClockInTime: in.AddDate(0, 0, 1), SiteID: &siteID},
	}
	fx := newFixture(t, user, entries)

	_, err := fx.subs.SubmitWeek(context.Background(), "u-1", "2026-02-02")
	var se *apperr.StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if len(fx.submitter.calls) != 0 {
		t.Error("no side effect may happen for a rejected week")
	}
	if len(fx.users.submitted) != 0 {
		t.Error("rejected week must not be archived")
	}
}

// On a webhook transport failure the week must remain active.
func TestSubmitWeekWebhookFailureKeepsWeekActive(t *testing.T) {
	url := "http://hooks.example/timesheet"
	user := &models.User{ID: "u-1", Name: "Jo", WebhookURL: &url}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{closedEntry("u-1", in, 8*time.Hour, &siteID)})
	fx.submitter.err = apperr.Transport(errors.New("connection refused"), "webhook submission failed")

	_, err := fx.subs.SubmitWeek(context.Background(), "u-1", "2026-02-02")
	var te *apperr.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if len(fx.users.submitted) != 0 {
		t.Error("failed submission must not archive the week")
	}
}

// Submitting an already archived week repeats the side effect but the
// submitted-weeks set does not grow.
func TestSubmitWeekIdempotentArchive(t *testing.T) {
	url := "http://hooks.example/timesheet"
	user := &models.User{ID: "u-1", Name: "Jo", WebhookURL: &url}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{closedEntry("u-1", in, 8*time.Hour, &siteID)})

	for i := 0; i < 2; i++ {
		if _, err := fx.subs.SubmitWeek(context.Background(), "u-1", "2026-02-02"); err != nil {
			t.Fatalf("submission %d: %v", i+1, err)
		}
	}
	if len(fx.submitter.calls) != 2 {
		t.Errorf("expected 2 webhook dispatches, got %d", len(fx.submitter.calls))
	}
	if len(fx.users.submitted) != 1 {
		t.Errorf("submitted weeks grew to %v", fx.users.submitted)
	}
}

func TestExportWeekCSVDoesNotArchive(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Jo Bloggs"}
	siteID := "site-1"
	in := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	fx := newFixture(t, user, []models.TimeEntry{closedEntry("u-1", in, 8*time.Hour, &siteID)})

	filename, content, err := fx.subs.ExportWeekCSV("u-1", "2026-02-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "Timesheet-Jo_Bloggs-2026-02-02_to_2026-02-08.csv" {
		t.Errorf("filename = %q", filename)
	}
	if content == "" {
		t.Error("expected rendered CSV content")
	}
	if len(fx.users.submitted) != 0 {
		t.Error("export must not change lifecycle state")
	}
}

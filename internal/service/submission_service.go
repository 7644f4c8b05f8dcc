package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/export"
	"github.com/crewclock/crewclock/internal/timesheet"
)

// Submission methods. Exactly one side effect happens per successful
// submission: a webhook POST when the user has a destination configured,
// otherwise a CSV file materialization.
const (
	MethodWebhook = "webhook"
	MethodCSV     = "csv"
)

// PayloadSubmitter dispatches one payload to a webhook destination.
type PayloadSubmitter interface {
	SubmitPayload(ctx context.Context, url string, payload export.Payload) error
}

type SubmissionResult struct {
	WeekIdentifier string `json:"week_identifier"`
	Method         string `json:"method"`
	FilePath       string `json:"file_path,omitempty"`
}

// SubmissionService drives the week lifecycle from active to archived.
// Archiving is one-way; there is no unsubmit.
type SubmissionService struct {
	timesheets *TimesheetService
	users      UserStore
	submitter  PayloadSubmitter
	exportDir  string
	logger     *zap.Logger
}

func NewSubmissionService(
	timesheets *TimesheetService,
	users UserStore,
	submitter PayloadSubmitter,
	exportDir string,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		timesheets: timesheets,
		users:      users,
		submitter:  submitter,
		exportDir:  exportDir,
		logger:     logger,
	}
}

// SubmitWeek archives one of the user's weeks. A week containing any open
// entry is rejected with a StateError before any side effect. On a
// webhook failure the week stays active and the error surfaces to the
// caller; no automatic retry. The submitted-weeks persistence is an
// idempotent set-add, so resubmitting an archived week cannot grow the set.
func (s *SubmissionService) SubmitWeek(ctx context.Context, userID, weekIdentifier string) (*SubmissionResult, error) {
	report, bucket, user, err := s.timesheets.BuildWeekReport(userID, weekIdentifier)
	if err != nil {
		return nil, err
	}

	if bucket.HasOpenEntries() {
		return nil, apperr.State("week %s has open entries and cannot be submitted", weekIdentifier)
	}

	result := &SubmissionResult{WeekIdentifier: weekIdentifier}

	if user.WebhookURL != nil && *user.WebhookURL != "" {
		payload := export.BuildPayload(user, report)
		if err := s.submitter.SubmitPayload(ctx, *user.WebhookURL, payload); err != nil {
			return nil, err
		}
		result.Method = MethodWebhook
	} else {
		path, err := s.writeCSV(user.Name, report)
		if err != nil {
			return nil, err
		}
		result.Method = MethodCSV
		result.FilePath = path
	}

	if err := s.users.AddSubmittedWeek(userID, weekIdentifier); err != nil {
		return nil, err
	}

	s.logger.Info("Week submitted",
		zap.String("user_id", userID),
		zap.String("week_identifier", weekIdentifier),
		zap.String("method", result.Method),
	)
	return result, nil
}

// ExportWeekCSV renders a week's CSV without changing its lifecycle
// state, so an archived week can be downloaded again.
func (s *SubmissionService) ExportWeekCSV(userID, weekIdentifier string) (filename, content string, err error) {
	report, _, user, err := s.timesheets.BuildWeekReport(userID, weekIdentifier)
	if err != nil {
		return "", "", err
	}
	filename = export.Filename(user.Name, report.WeekStart, report.WeekEnd)
	content = export.RenderCSV(user.Name, report)
	return filename, content, nil
}

func (s *SubmissionService) writeCSV(employeeName string, report *timesheet.WeekReport) (string, error) {
	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(s.exportDir, export.Filename(employeeName, report.WeekStart, report.WeekEnd))
	content := export.RenderCSV(employeeName, report)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write timesheet file: %w", err)
	}
	return path, nil
}

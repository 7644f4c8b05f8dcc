package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/service"
	"github.com/crewclock/crewclock/internal/timesheet"
)

type TimesheetHandler struct {
	timesheets  *service.TimesheetService
	submissions *service.SubmissionService
	logger      *zap.Logger
}

func NewTimesheetHandler(
	timesheets *service.TimesheetService,
	submissions *service.SubmissionService,
	logger *zap.Logger,
) *TimesheetHandler {
	return &TimesheetHandler{
		timesheets:  timesheets,
		submissions: submissions,
		logger:      logger,
	}
}

type weekResponse struct {
	WeekIdentifier string  `json:"week_identifier"`
	WeekStart      string  `json:"week_start"`
	WeekEnd        string  `json:"week_end"`
	TotalHours     float64 `json:"total_hours"`
	EntryCount     int     `json:"entry_count"`
	OpenEntries    bool    `json:"open_entries"`
	Overdue        bool    `json:"overdue,omitempty"`
}

func toWeekResponse(b timesheet.WeeklyBucket) weekResponse {
	return weekResponse{
		WeekIdentifier: b.WeekIdentifier,
		WeekStart:      b.WeekStart.Format("2006-01-02"),
		WeekEnd:        b.WeekEnd.Format("2006-01-02"),
		TotalHours:     timesheet.Round2(b.TotalHours),
		EntryCount:     len(b.Entries),
		OpenEntries:    b.HasOpenEntries(),
		Overdue:        b.Overdue,
	}
}

// List returns the user's weekly buckets classified active vs archived.
func (h *TimesheetHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}

	sheets, err := h.timesheets.ListTimesheets(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	active := make([]weekResponse, 0, len(sheets.Active))
	for _, b := range sheets.Active {
		active = append(active, toWeekResponse(b))
	}
	archived := make([]weekResponse, 0, len(sheets.Archived))
	for _, b := range sheets.Archived {
		archived = append(archived, toWeekResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{"active": active, "archived": archived})
}

// Submit archives a week, submitting it to the user's webhook or
// materializing a CSV file.
func (h *TimesheetHandler) Submit(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}
	weekID := c.Param("week")

	result, err := h.submissions.SubmitWeek(c.Request.Context(), userID, weekID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportCSV streams a week's timesheet as a CSV attachment.
func (h *TimesheetHandler) ExportCSV(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}
	weekID := c.Param("week")

	filename, content, err := h.submissions.ExportWeekCSV(userID, weekID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv;charset=utf-8", []byte(content))
}

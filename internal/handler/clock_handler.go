package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/models"
	"github.com/crewclock/crewclock/internal/service"
	"github.com/crewclock/crewclock/internal/timesheet"
)

type ClockHandler struct {
	clock  *service.ClockService
	logger *zap.Logger
}

func NewClockHandler(clock *service.ClockService, logger *zap.Logger) *ClockHandler {
	return &ClockHandler{clock: clock, logger: logger}
}

// entryResponse decorates an entry with its display duration, computed
// with the same break rule the aggregation uses so the two never diverge.
type entryResponse struct {
	models.TimeEntry
	DurationMinutes *int64 `json:"duration_minutes,omitempty"`
	BreakDeducted   bool   `json:"break_deducted,omitempty"`
}

func toEntryResponse(e models.TimeEntry) (entryResponse, error) {
	resp := entryResponse{TimeEntry: e}
	if e.ClockOutTime != nil {
		d, deducted, err := timesheet.EntryDuration(&e)
		if err != nil {
			return resp, err
		}
		minutes := int64(d.Minutes())
		resp.DurationMinutes = &minutes
		resp.BreakDeducted = deducted
	}
	return resp, nil
}

func (h *ClockHandler) ClockIn(c *gin.Context) {
	var req models.ClockInRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	entry, err := h.clock.ClockIn(req.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("User clocked in",
		zap.String("user_id", req.UserID),
		zap.String("entry_id", entry.ID),
	)
	c.JSON(http.StatusCreated, entry)
}

func (h *ClockHandler) ClockOut(c *gin.Context) {
	var req models.ClockOutRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	entry, err := h.clock.ClockOut(req.UserID, req.JobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("User clocked out",
		zap.String("user_id", req.UserID),
		zap.String("entry_id", entry.ID),
	)
	c.JSON(http.StatusOK, entry)
}

func (h *ClockHandler) CompleteJobAndContinue(c *gin.Context) {
	var req models.CompleteJobRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	entry, err := h.clock.CompleteJobAndContinue(req.UserID, req.JobID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ClockHandler) ClockStatus(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}

	entry, err := h.clock.CurrentEntry(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"clocked_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clocked_in": true, "entry": entry})
}

func (h *ClockHandler) ListEntries(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}

	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.clock.GetEntries(userID, startDate, endDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondEntries(c, entries)
}

func (h *ClockHandler) ListEntriesForAdmin(c *gin.Context) {
	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	var userIDs []string
	if ids, exists := c.GetQueryArray("user_id"); exists {
		userIDs = ids
	}

	entries, err := h.clock.GetEntriesForAdmin(startDate, endDate, userIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondEntries(c, entries)
}

func (h *ClockHandler) UpdateEntry(c *gin.Context) {
	var req models.UpdateTimeEntryRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	entry, err := h.clock.UpdateEntry(c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ClockHandler) DeleteEntry(c *gin.Context) {
	if err := h.clock.DeleteEntry(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClockHandler) respondEntries(c *gin.Context, entries []models.TimeEntry) {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp, err := toEntryResponse(e)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}

func parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var startDate, endDate *time.Time
	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		startDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		endDate = &t
	}
	return startDate, endDate, true
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/handler"
)

// New builds the gin engine with all API routes mounted under /api/v1.
func New(
	clock *handler.ClockHandler,
	timesheets *handler.TimesheetHandler,
	admin *handler.AdminHandler,
	logger *zap.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	clockGroup := api.Group("/clock")
	clockGroup.POST("/in", clock.ClockIn)
	clockGroup.POST("/out", clock.ClockOut)
	clockGroup.POST("/complete-job", clock.CompleteJobAndContinue)
	clockGroup.GET("/status", clock.ClockStatus)

	entries := api.Group("/time-entries")
	entries.GET("", clock.ListEntries)
	entries.GET("/admin", clock.ListEntriesForAdmin)
	entries.PUT("/:id", clock.UpdateEntry)
	entries.DELETE("/:id", clock.DeleteEntry)

	sheets := api.Group("/timesheets")
	sheets.GET("", timesheets.List)
	sheets.POST("/:week/submit", timesheets.Submit)
	sheets.GET("/:week/export", timesheets.ExportCSV)

	// Registered outside the jobs group: a static segment cannot share a
	// position with the :id parameter in the same method tree.
	api.GET("/upcoming-jobs", admin.ListUpcomingJobs)

	jobs := api.Group("/jobs")
	jobs.POST("", admin.CreateJob)
	jobs.GET("", admin.ListJobs)
	jobs.GET("/:id", admin.GetJob)
	jobs.PUT("/:id", admin.UpdateJob)
	jobs.DELETE("/:id", admin.DeleteJob)

	sites := api.Group("/sites")
	sites.POST("", admin.CreateSite)
	sites.GET("", admin.ListSites)
	sites.GET("/:id", admin.GetSite)
	sites.DELETE("/:id", admin.DeleteSite)

	users := api.Group("/users")
	users.POST("", admin.CreateUser)
	users.GET("", admin.ListUsers)
	users.GET("/:id", admin.GetUser)
	users.PUT("/:id", admin.UpdateUser)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", c.ClientIP()),
		)
	}
}

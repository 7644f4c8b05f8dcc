package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/models"
	"github.com/crewclock/crewclock/internal/repository"
)

// AdminHandler serves the job, site and user management endpoints.
// These are plain CRUD so the handlers talk to the repositories directly.
type AdminHandler struct {
	jobs   *repository.JobRepository
	sites  *repository.SiteRepository
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewAdminHandler(
	jobs *repository.JobRepository,
	sites *repository.SiteRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{jobs: jobs, sites: sites, users: users, logger: logger}
}

// Jobs

func (h *AdminHandler) CreateJob(c *gin.Context) {
	var req models.CreateJobRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	job, err := h.jobs.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("job created", zap.String("job_id", job.ID), zap.String("site_id", job.SiteID))
	c.JSON(http.StatusCreated, job)
}

func (h *AdminHandler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminHandler) ListJobs(c *gin.Context) {
	if siteID := c.Query("site_id"); siteID != "" {
		jobs, err := h.jobs.GetBySiteID(siteID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, jobs)
		return
	}
	jobs, err := h.jobs.GetAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ListUpcomingJobs returns jobs assigned to the user that start within
// the next seven days or are already underway.
func (h *AdminHandler) ListUpcomingJobs(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id parameter"})
		return
	}
	jobs, err := h.jobs.GetUpcomingForUser(userID, time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *AdminHandler) UpdateJob(c *gin.Context) {
	var req models.UpdateJobRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	job, err := h.jobs.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminHandler) DeleteJob(c *gin.Context) {
	if err := h.jobs.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sites

func (h *AdminHandler) CreateSite(c *gin.Context) {
	var req models.CreateSiteRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	site, err := h.sites.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("site created", zap.String("site_id", site.ID), zap.String("title", site.Title))
	c.JSON(http.StatusCreated, site)
}

func (h *AdminHandler) GetSite(c *gin.Context) {
	site, err := h.sites.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *AdminHandler) ListSites(c *gin.Context) {
	sites, err := h.sites.GetAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (h *AdminHandler) DeleteSite(c *gin.Context) {
	if err := h.sites.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	user, err := h.users.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.GetAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	user, err := h.users.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
)

// respondError maps the error taxonomy to HTTP statuses and emits a
// single human-readable message. Store-layer details stay in the logs.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		stateErr      *apperr.StateError
		transportErr  *apperr.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Message})
	case errors.As(err, &transportErr):
		logger.Error("Webhook transport failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Submission failed; the week remains active. Please try again."})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/application"
	"github.com/expertlink/api/internal/domain/repository"
	"github.com/expertlink/api/pkg/response"
)

// writeServiceError maps domain errors onto the original wire
// vocabulary. Anything unrecognized is a storage fault and is reported
// as such, never masked.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrInsufficientFunds):
		response.Error(c, http.StatusBadRequest, "Insufficient coins")
	case errors.Is(err, application.ErrInvalidAmount), errors.Is(err, application.ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}

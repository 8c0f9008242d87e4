package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"gateway-inject/internal/middleware"
	"gateway-inject/internal/repositories"
)

// ErrorResponse is the error body rendered by every handler
type ErrorResponse = middleware.ErrorResponse

// handleRepositoryError maps repository failures onto error responses
func handleRepositoryError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		middleware.AbortWithValidationErrors(c, validationErrors)
	case repositories.IsNotFound(err):
		middleware.AbortWithError(c, http.StatusNotFound, err.Error())
	case repositories.IsDuplicate(err):
		middleware.AbortWithError(c, http.StatusConflict, err.Error())
	case repositories.IsValidation(err):
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}).Error("Repository operation failed")
		middleware.AbortWithError(c, http.StatusInternalServerError, "An internal server error occurred")
	}
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error body every route renders:
// {"statusCode":404,"error":"Not Found","message":"Not Found"}
type ErrorResponse struct {
	StatusCode       int               `json:"statusCode"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation,omitempty"`
}

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error body for status. An empty message
// defaults to the status text.
func NewErrorResponse(status int, message string) ErrorResponse {
	if message == "" {
		message = http.StatusText(status)
	}
	return ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	}
}

// AbortWithError renders the error body and stops the handler chain
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(status, message))
}

// AbortWithValidationErrors renders a 400 listing each failed field
func AbortWithValidationErrors(c *gin.Context, validationErrors validator.ValidationErrors) {
	response := NewErrorResponse(http.StatusBadRequest, "Request validation failed")
	response.ValidationErrors = formatValidationErrors(validationErrors)
	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

func formatValidationErrors(validationErrors validator.ValidationErrors) []ValidationError {
	var errors []ValidationError

	for _, err := range validationErrors {
		var message string

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("%s is invalid", err.Field())
		}

		errors = append(errors, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
			Message: message,
		})
	}

	return errors
}

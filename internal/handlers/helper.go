package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/session"
	"github.com/gin-gonic/gin"
)

// ParseUintParam parses a numeric path parameter. Writes a 400 response and
// returns 0 when the parameter is missing or malformed.
func ParseUintParam(c *gin.Context, param string) uint {
	idStr := strings.TrimSpace(c.Param(param))
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

// ParseStringIDParam extracts a non-empty string path parameter. Writes a 400
// response and returns "" when the parameter is empty.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// handleServiceError maps service and engine errors onto HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrPracticeSetNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Practice set not found",
		})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})
	case errors.Is(err, services.ErrPracticeSetEmpty):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Practice set has no questions",
		})
	case errors.Is(err, services.ErrSessionActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session still in progress",
		})
	case errors.Is(err, session.ErrSessionCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session already completed",
		})
	case errors.Is(err, session.ErrQuestionNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Question is not the active question",
		})
	case errors.Is(err, session.ErrWrongQuestionKind),
		errors.Is(err, session.ErrUnknownChoice),
		errors.Is(err, session.ErrUnknownItem):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid answer submission",
			Details: err.Error(),
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource conflict",
			Details: err.Error(),
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// respondServiceError maps domain sentinels onto status codes
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrNoCompletedRun):
		RespondError(c, http.StatusNotFound, "no_completed_run", err)
	case errors.Is(err, entities.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, entities.ErrInvalidStatusTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, entities.ErrInvalidPeriods):
		RespondError(c, http.StatusUnprocessableEntity, "invalid_periods", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

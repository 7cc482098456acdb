package controller

import (
	"context"
	"errors"
	"net/http"

	qerrors "github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, qerrors.ErrValidation), errors.Is(err, qerrors.ErrImport):
		return http.StatusBadRequest
	case errors.Is(err, qerrors.ErrNoQuotes):
		return http.StatusNotFound
	case errors.Is(err, qerrors.ErrSyncInFlight):
		return http.StatusConflict
	case errors.Is(err, qerrors.ErrSyncDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal failures are logged and
// answered with a generic message.
func respondError(c *gin.Context, component string, err error) {
	status := statusFor(err)
	log := logger.WithComponent(component)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal error"})
			return
		}
	} else {
		log.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/ingest"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var schemaErr *ingest.SchemaError
	switch {
	case errors.As(err, &schemaErr), errors.Is(err, ingest.ErrSchema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoOwnerData):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c *gin.Context, message string, err error) {
	status := statusFor(err)
	body := gin.H{"error": message, "details": err.Error()}

	var schemaErr *ingest.SchemaError
	if errors.As(err, &schemaErr) {
		body["missing_columns"] = schemaErr.Missing
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg(message)

	c.JSON(status, body)
}

package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"eda-backend/internal/ingest"
	"eda-backend/internal/service"
)

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var pe *ingest.ParseError
	switch {
	case errors.Is(err, ingest.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, ingest.ErrEmptyFile), errors.As(err, &pe):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidReportID), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with a plain-text error. Server faults are logged and
// their details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		msg = "Failed to generate report"
	case http.StatusNotFound:
		msg = "Not found"
	case http.StatusUnprocessableEntity:
		hlog.FromRequest(r).Warn().Err(err).Msg("unreadable upload")
	}
	http.Error(w, msg, status)
}

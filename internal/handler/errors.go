package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status code by error kind.
func statusFor(err error) int {
	switch domain.Kind(err) {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error response. Messages of unexpected
// errors are not exposed to the client.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			message = domainErr.Err.Error()
		} else if domain.Kind(err) == nil {
			message = http.StatusText(status)
		}
	}

	writeJSON(w, status, ErrorResponse{Error: message})
}

// badRequest wraps a client mistake detected by the HTTP layer itself.
func badRequest(message, resource string) error {
	return domain.NewDomainError(domain.ErrInvalidInput, message, resource)
}

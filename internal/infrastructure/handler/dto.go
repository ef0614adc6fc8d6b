package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/domain/repository"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/db"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/logger"
)

// SaveRatesRequest represents the request body for manually writing rates
type SaveRatesRequest struct {
	Vedhani      string `json:"vedhani"`
	Ornaments22K string `json:"ornaments22k"`
	Ornaments18K string `json:"ornaments18k"`
	Silver       string `json:"silver"`
}

// ImportResponse carries an imported reading plus the remote table it came from
type ImportResponse struct {
	*entity.RateReading
	SourceTable string `json:"sourceTable"`
	Skipped     bool   `json:"skipped,omitempty"`
}

// SaveImageRequest represents the request body for registering an image
type SaveImageRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	FileName string `json:"fileName"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// statusForError maps the error taxonomy onto HTTP status codes. Empty-store
// and no-candidate outcomes are 404s, upstream trouble is a 502, anything
// touching the database is a 500.
func statusForError(err error) int {
	var upstreamErr *api.UpstreamError
	var formatErr *api.FormatError
	var noCandidateErr *db.NoCandidateError

	switch {
	case errors.Is(err, repository.ErrNoRates), errors.Is(err, repository.ErrNoImages):
		return http.StatusNotFound
	case errors.As(err, &noCandidateErr):
		return http.StatusNotFound
	case errors.As(err, &upstreamErr), errors.As(err, &formatErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sendJSON writes a JSON response
func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

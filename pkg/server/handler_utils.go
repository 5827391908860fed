package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

// APIError represents an error response.
type APIError struct {
	Message string `json:"message"`
}

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct.
func decodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// renderError renders an error response.
func renderError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		log.Error(err)
	}
	http.Error(w, err.Error(), status)
}

// statusForError maps engine errors onto HTTP status codes. Oversized or
// empty inputs are the caller's fault; an unreachable backend is a 503;
// everything else is a server-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInputTooLong),
		errors.Is(err, models.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

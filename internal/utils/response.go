// Package utils holds the response writers shared by the HTTP handlers.
package utils

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/maruel/actionmap/internal/errors"
)

// RespondJSON sends a JSON response with the given status code.
//
// The status is already sent when encoding fails, so the error is only worth
// logging.
func RespondJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// RespondError sends an error JSON response.
func RespondError(w http.ResponseWriter, status int, code apierrors.ErrorCode, message string, details map[string]any) {
	resp := apierrors.ErrorResponse{
		Error: apierrors.ErrorDetails{Code: code, Message: message},
	}
	if len(details) > 0 {
		resp.Details = details
	}
	_ = RespondJSON(w, status, resp)
}

// RespondText sends a plain text response.
func RespondText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

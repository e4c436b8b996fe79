// Package shared centralizes JSON response and error envelope writing so
// every handler speaks the same dialect.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "certivault/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure details never leak
// to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	envelope := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		envelope["error_description"] = err.Error()
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), envelope)
}

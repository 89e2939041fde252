// Package httputil centralizes JSON response envelopes so every handler
// renders errors and payloads the same way.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "covera/pkg/domain-errors"
)

type errorBody struct {
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description,omitempty"`
	Violations       []dErrors.Violation `json:"violations,omitempty"`
}

// WriteError translates a domain error into a JSON error envelope.
// Internal errors omit the description so server details never leak;
// validation and invariant errors include the full violation list.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}

	var de *dErrors.DomainError
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		body.ErrorDescription = de.Message
		body.Violations = de.Violations
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON renders v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

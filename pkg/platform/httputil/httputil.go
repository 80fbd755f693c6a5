// Package httputil centralizes JSON request/response handling so handlers keep
// a consistent envelope shape across the gateway.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"talentgate/pkg/platform/sentinel"
)

// errorBody is the JSON error envelope used by every gateway endpoint.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON encodes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates an error into the JSON error envelope. Sentinel
// infrastructure errors map to their natural status codes; anything else is an
// internal error with the description withheld.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: "not_found", ErrorDescription: err.Error()})
	case errors.Is(err, sentinel.ErrExpired), errors.Is(err, sentinel.ErrRevoked):
		WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", ErrorDescription: err.Error()})
	case errors.Is(err, sentinel.ErrConflict):
		WriteJSON(w, http.StatusConflict, errorBody{Error: "conflict", ErrorDescription: err.Error()})
	case errors.Is(err, sentinel.ErrUnavailable):
		WriteJSON(w, http.StatusBadGateway, errorBody{Error: "upstream_unavailable"})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal_error"})
	}
}

// WriteBadRequest reports a client input problem with a description.
func WriteBadRequest(w http.ResponseWriter, description string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", ErrorDescription: description})
}

// DecodeJSON decodes a request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

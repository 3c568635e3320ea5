package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gp-deepseek-translate/internal/apierr"
	"gp-deepseek-translate/internal/validate"
)

type errorBody struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string, details ...string) {
	writeJSON(w, status, map[string]errorBody{
		"error": {Kind: kind, Message: msg, Details: details},
	})
}

// writeTranslateError maps an error from the translation client to a
// status code and the JSON error body.
func writeTranslateError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	kind := string(apierr.KindOf(err))
	if kind == "" {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			kind = "timeout"
		case errors.Is(err, context.Canceled):
			kind = "canceled"
		default:
			kind = "internal_error"
		}
	}
	writeError(w, status, kind, err.Error())
}

func statusFor(err error) int {
	switch apierr.KindOf(err) {
	case apierr.KindEmptyBatch:
		return http.StatusBadRequest
	case apierr.KindUnsupportedLocale,
		apierr.KindLocaleNotFound,
		apierr.KindBatchTooLarge,
		apierr.KindMissingAPIKey,
		apierr.KindInvalidRequest:
		return http.StatusUnprocessableEntity
	case apierr.KindHTTPTransport,
		apierr.KindHTTPStatus,
		apierr.KindJSONDecode,
		apierr.KindAPI,
		apierr.KindInvalidResponse,
		apierr.KindEmptyTranslation,
		apierr.KindParseCountMismatch:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) {
		// client closed request
		return 499
	}
	return http.StatusInternalServerError
}

// decodeBody reads r's body, checks it against schema and decodes it into
// dst. It writes the error response itself and reports whether the caller
// may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, schema validate.Schema, dst any) bool {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read request body")
		return false
	}

	violations, err := validate.Validate(schema, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return false
	}
	if len(violations) > 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", strings.Join(violations, "; "), violations...)
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return false
	}
	return true
}

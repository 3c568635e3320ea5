// Package apierr defines the error kinds returned by the DeepSeek translation
// core. Every failure is returned as a value so callers can branch on Kind.
package apierr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a translation failure.
type Kind string

const (
	KindHTTPTransport      Kind = "http_transport"
	KindHTTPStatus         Kind = "http_status"
	KindJSONDecode         Kind = "json_decode"
	KindAPI                Kind = "api_error"
	KindInvalidResponse    Kind = "invalid_response"
	KindEmptyTranslation   Kind = "empty_translation"
	KindParseCountMismatch Kind = "parse_count_mismatch"
	KindUnsupportedLocale  Kind = "unsupported_locale"
	KindMissingAPIKey      Kind = "missing_api_key"
	KindLocaleNotFound     Kind = "locale_not_found"
	KindEmptyBatch         Kind = "empty_batch"
	KindBatchTooLarge      Kind = "batch_too_large"
	// KindInvalidRequest is a request the client refused to send.
	KindInvalidRequest Kind = "invalid_request"
)

// Error is the single error type of the core. Only the fields relevant to
// Kind are populated.
type Error struct {
	Kind Kind

	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	// Code is the provider error code for KindAPI.
	Code string
	// Message is a human readable description.
	Message string
	// Expected and Got are set for KindParseCountMismatch and KindBatchTooLarge.
	Expected int
	Got      int

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		if e.Message != "" {
			return fmt.Sprintf("deepseek: HTTP error %d: %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("deepseek: HTTP error %d", e.StatusCode)
	case KindAPI:
		return fmt.Sprintf("deepseek: api error (%s): %s", e.Code, e.Message)
	case KindParseCountMismatch:
		return fmt.Sprintf("deepseek: expected %d translations but got %d", e.Expected, e.Got)
	case KindBatchTooLarge:
		return fmt.Sprintf("deepseek: maximum %d strings allowed per batch, got %d", e.Expected, e.Got)
	}

	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("deepseek: %s: %v", msg, e.Err)
	}
	return "deepseek: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, &apierr.Error{Kind: apierr.KindEmptyBatch}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when err
// carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// New returns an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error of the given kind wrapping err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func HTTPStatus(code int, msg string) *Error {
	return &Error{Kind: KindHTTPStatus, StatusCode: code, Message: msg}
}

func API(code, msg string) *Error {
	if code == "" {
		code = "unknown"
	}
	if msg == "" {
		msg = "Unknown API error"
	}
	return &Error{Kind: KindAPI, Code: code, Message: msg}
}

func CountMismatch(expected, got int) *Error {
	return &Error{Kind: KindParseCountMismatch, Expected: expected, Got: got}
}

func TooLarge(max, got int) *Error {
	return &Error{Kind: KindBatchTooLarge, Expected: max, Got: got}
}

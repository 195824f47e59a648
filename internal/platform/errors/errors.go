// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// Code is the closed set of wire error codes returned by the API.
// Values are stable for client compatibility; add sparingly
type Code string

const (
	// CodeUnknown is for unclassified errors
	CodeUnknown Code = "SERVER_ERROR"

	// CodeValidation is for a malformed request body
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeInvalidInput is for blank input text
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeInputTooLong is for input text over the character limit
	CodeInputTooLong Code = "INPUT_TOO_LONG"

	// CodeTooManyWords is for input text over the word limit
	CodeTooManyWords Code = "TOO_MANY_WORDS"

	// CodeRateLimited is for throttled clients and upstream throttling alike
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeServiceDisabled is for the operator kill switch
	CodeServiceDisabled Code = "SERVICE_DISABLED"

	// CodeMethodNotAllowed is for non-POST access to the translate route
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"

	// CodeParse is for an upstream envelope or content that is not JSON
	CodeParse Code = "PARSE_ERROR"

	// CodeIncompleteResponse is for upstream output failing schema validation
	CodeIncompleteResponse Code = "INCOMPLETE_RESPONSE"

	// CodeUpstream is for upstream transport failures and non-2xx statuses
	CodeUpstream Code = "UPSTREAM_ERROR"

	// CodeMissingAPIKey is for an absent upstream credential
	CodeMissingAPIKey Code = "MISSING_API_KEY"
)

// HTTPStatusCode turns a Code into an http status code
func HTTPStatusCode(c Code) int {
	switch c {
	case CodeValidation, CodeInvalidInput, CodeInputTooLong, CodeTooManyWords:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeServiceDisabled:
		return http.StatusServiceUnavailable
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeParse, CodeIncompleteResponse, CodeUpstream:
		return http.StatusBadGateway
	case CodeMissingAPIKey, CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is the structured error type with wrapping and metadata
// msg is user facing; code is machine facing; retryAfter is seconds until
// a throttled client may try again (0 means not throttled)
// orig is the wrapped cause and is never shown to clients
type Error struct {
	orig       error
	msg        string
	code       Code
	retryAfter int
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Message    string `json:"error"`
	Code       Code   `json:"code"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() Code { return e.code }

// RetryAfter returns the retry hint in seconds, if any
func (e *Error) RetryAfter() int { return e.retryAfter }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, RetryAfter: e.retryAfter} }

// WireFrom converts any error into a Wire payload with best-effort mapping.
// Foreign errors never leak their text to clients
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: CodeUnknown, Message: "something went wrong, please try again"}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts a Code from any error, defaulting to Unknown
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.code
	}
	return CodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code Code) bool { return CodeOf(err) == code }

// RetryAfterOf extracts the retry hint from any error, 0 when absent
func RetryAfterOf(err error) int {
	if e, ok := As(err); ok {
		return e.retryAfter
	}
	return 0
}

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithRetryAfter attaches a retry hint to an *Error (copy-on-write).
// If err isn't *Error, returns err unchanged
func WithRetryAfter(err error, seconds int) error {
	if e, ok := As(err); ok {
		c := *e
		c.retryAfter = seconds
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code Code, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code Code, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code Code, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code Code, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// Validationf returns a malformed-body error
func Validationf(format string, a ...any) error { return Newf(CodeValidation, format, a...) }

// InvalidInputf returns a blank-input error
func InvalidInputf(format string, a ...any) error { return Newf(CodeInvalidInput, format, a...) }

// RateLimitedf returns a throttling error carrying a retry hint
func RateLimitedf(retryAfter int, format string, a ...any) error {
	return &Error{code: CodeRateLimited, msg: fmt.Sprintf(format, a...), retryAfter: retryAfter}
}

// ServiceDisabledf returns a kill-switch error
func ServiceDisabledf(format string, a ...any) error { return Newf(CodeServiceDisabled, format, a...) }

// MethodNotAllowedf returns a wrong-method error
func MethodNotAllowedf(format string, a ...any) error {
	return Newf(CodeMethodNotAllowed, format, a...)
}

// Parsef returns an upstream-parse error
func Parsef(format string, a ...any) error { return Newf(CodeParse, format, a...) }

// Incompletef returns a schema-validation error for upstream output
func Incompletef(format string, a ...any) error { return Newf(CodeIncompleteResponse, format, a...) }

// Upstreamf returns an upstream transport error
func Upstreamf(format string, a ...any) error { return Newf(CodeUpstream, format, a...) }

// MissingAPIKeyf returns a configuration error for the absent credential
func MissingAPIKeyf(format string, a ...any) error { return Newf(CodeMissingAPIKey, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(CodeUnknown, format, a...) }

// HTTP bundles status + wire in one shot (nice for handlers)
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Retryable reports whether the client may usefully retry without changing input
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeRateLimited, CodeParse, CodeIncompleteResponse, CodeUpstream, CodeUnknown:
		return true
	default:
		return false
	}
}

package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "title", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "title").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	// Usually "Value" holds the URL or route.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type for API responses.
//
// It is serialized directly to JSON by the global error handler.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, static per failure kind.
//   - Status: HTTP status code.
//   - Override: lets middleware decide whether to override the message.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction (optional).
//   - Internal: underlying cause, logged but never serialized.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction (redirect, etc.).
	Action *Action `json:"action"`

	Internal error `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// The internal cause is appended so logs keep it; clients only see Message.
func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap exposes the internal cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// Is reports true for any *HTTPError target; Code/Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithInternal returns a copy of this HTTPError carrying err as its cause.
func (e *HTTPError) WithInternal(err error) *HTTPError {
	clone := *e
	clone.Internal = err
	return &clone
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

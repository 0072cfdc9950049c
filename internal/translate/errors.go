package translate

import "fmt"

// Machine-stable error codes. Callers branch on these instead of matching
// message strings.
const (
	CodeNetworkError     = "network_error"     // backend unreachable or timed out
	CodeBackendError     = "backend_error"     // backend responded but reported failure
	CodeTranslationError = "translation_error" // anything else, retains the underlying message
)

// Error is a terminal translation failure: one short human-readable message
// plus a stable code. Orchestrator invocations surface exactly one of these.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkError(message string, err error) *Error {
	return &Error{Code: CodeNetworkError, Message: message, Err: err}
}

func backendError(message string, err error) *Error {
	return &Error{Code: CodeBackendError, Message: message, Err: err}
}

func translationError(message string, err error) *Error {
	return &Error{Code: CodeTranslationError, Message: message, Err: err}
}

// AsError normalizes any error into the taxonomy, wrapping unknown errors as
// a generic translation error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*Error); ok {
		return te
	}
	return translationError(err.Error(), err)
}

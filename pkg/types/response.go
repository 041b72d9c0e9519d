package types

// SuccessEnvelope wraps every successful response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Retryable tells clients they may
// repeat the request after backing off, e.g. when the basket store is down.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds an error body; nil details are omitted.
func NewErrorEnvelope(code, message string, retryable bool, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Details:   details,
	}}
}

package types

// SuccessEnvelope wraps every 2xx body of the bookshop API as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error. Code is one of the pkg/errors codes
// (VALIDATION, NOT_FOUND, STATE_CONFLICT, ...); Message is safe to show a
// shopper and Details carries per-field hints when present.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx body as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

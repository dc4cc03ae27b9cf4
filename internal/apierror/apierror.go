// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// Payload is the canonical error envelope for all 4xx/5xx HTTP responses:
// a message, plus an optional field → ordered list of violation strings.
type Payload struct {
	Message       string              `json:"message"`
	Errors        map[string][]string `json:"errors,omitempty"`
	ProductsCount *int64              `json:"products_count,omitempty"`
}

// Error carries the HTTP status alongside the payload so handlers can map
// service failures to responses without inspecting error strings.
type Error struct {
	Status  int
	Payload Payload
}

func (e *Error) Error() string { return e.Payload.Message }

// NotFound → 404. The id does not resolve to a row.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Payload: Payload{Message: message}}
}

// Validation → 422 with per-field detail. Every violated field is reported
// at once; each value is an ordered list of human-readable reasons.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Payload: Payload{Message: "Validation failed", Errors: fields},
	}
}

// InvalidCategory → 422. Distinct from generic validation failure: the
// category name was well-formed but does not resolve to an existing row.
func InvalidCategory() *Error {
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Payload: Payload{
			Message: "Invalid category",
			Errors:  map[string][]string{"category": {"The selected category does not exist"}},
		},
	}
}

// Conflict → 400. Delete blocked by existing references; the blocking
// product count is included in the body.
func Conflict(message string, productsCount int64) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Payload: Payload{Message: message, ProductsCount: &productsCount},
	}
}

// Unauthorized → 401.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Payload: Payload{Message: message}}
}

// BadRequest → 400 without field detail (malformed bodies, bad ids).
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Payload: Payload{Message: message}}
}

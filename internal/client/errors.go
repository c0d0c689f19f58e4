package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthenticated is returned when the API responds with 401.
// The auth failure handler has already been called by the time the caller sees it.
var ErrUnauthenticated = errors.New("Session expired")

// APIError represents a non-success response (other than 401) from the TrainTrack API
type APIError struct {
	StatusCode int
	Message    string          // the response "error" field, or a generated message containing the status code
	Body       json.RawMessage // the response body, or the fallback payload when the body was not JSON
}

func (e *APIError) Error() string {
	return e.Message
}

// UserError returns a user-friendly message for the failure
func (e *APIError) UserError() string {
	switch e.StatusCode {
	case http.StatusForbidden:
		return "You don't have permission to access this resource."
	case http.StatusNotFound:
		return "The requested resource could not be found."
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		// use the server message for validation errors
		return e.Message
	case http.StatusTooManyRequests:
		return "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "An error occurred. Please try again."
	}
}

func newAPIError(statusCode int, body json.RawMessage) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    errorMessage(statusCode, body),
		Body:       body,
	}
}

// errorMessage returns the body's "error" field when it holds a usable value, otherwise a message containing the status code.
//
// Empty strings, false, 0 and null are treated as absent. Objects and arrays are returned as compact JSON text.
func errorMessage(statusCode int, body json.RawMessage) string {
	fallback := fmt.Sprintf("Request failed with status %d", statusCode)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	raw, ok := payload["error"]
	if !ok {
		return fallback
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}

	switch val := v.(type) {
	case string:
		if val != "" {
			return val
		}
	case bool:
		if val {
			return "true"
		}
	case float64:
		if val != 0 {
			return string(raw)
		}
	case map[string]any, []any:
		compact, err := json.Marshal(val)
		if err == nil {
			return string(compact)
		}
	}

	return fallback
}

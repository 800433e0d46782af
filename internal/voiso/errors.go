package voiso

import (
	"encoding/json"
	"fmt"
)

// ConfigurationError is returned by NewClient when the client cannot be
// configured, most commonly because no API key was found.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("voiso: configuring %s: %s", e.Field, e.Reason)
}

// TransportError means the request never produced an HTTP response:
// DNS failure, refused connection, timeout, cancelled context.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("voiso: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned for any non-2xx response. Body holds the raw
// response body.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
	// Message is the API's "message" field when the body carries one
	Message string
}

func newHTTPStatusError(statusCode int, body []byte) *HTTPStatusError {
	errRsp := struct {
		Message string `json:"message"`
	}{}
	_ = json.Unmarshal(body, &errRsp)

	return &HTTPStatusError{
		StatusCode: statusCode,
		Body:       body,
		Message:    errRsp.Message,
	}
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("voiso: API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("voiso: API error (status %d): %s", e.StatusCode, string(e.Body))
}

// DecodeError is returned when a successful response body is not a JSON object.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("voiso: decoding response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ArgumentError is returned before any request is made when a required
// argument is empty.
type ArgumentError struct {
	Field string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("voiso: %s is required", e.Field)
}

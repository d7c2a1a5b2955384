package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// NetworkError means the request could not complete (dial, timeout, reset).
type NetworkError struct {
	Service string
	Op      string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Message holds the server-provided
// message, if any.
type HTTPError struct {
	Service string
	Op      string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Service, e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Service, e.Op, e.Status)
}

// DecodeError is a 2xx response whose body could not be decoded.
type DecodeError struct {
	Service string
	Op      string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Service, e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newHTTPError(service, op string, resp *http.Response) *HTTPError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{
		Service: service,
		Op:      op,
		Status:  resp.StatusCode,
		Message: serverMessage(raw),
	}
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error
// body. Anything else yields "".
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	return strings.TrimSpace(body.Error)
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

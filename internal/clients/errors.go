// internal/clients/errors.go
package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkFailure means no response was received.
type NetworkFailure struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s %s: network failure: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkFailure) Unwrap() error { return e.Err }

// ServerFailure is a non-2xx response. Message holds the server's
// {"message": ...} payload when one was sent.
type ServerFailure struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *ServerFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.Path, e.StatusCode)
}

func newServerFailure(method, path string, status int, body []byte) *ServerFailure {
	sf := &ServerFailure{Method: method, Path: path, StatusCode: status}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		sf.Message = strings.TrimSpace(payload.Message)
	}
	return sf
}

// IsRequestFailure reports whether err came from the transport or the server.
func IsRequestFailure(err error) bool {
	var nf *NetworkFailure
	var sf *ServerFailure
	return errors.As(err, &nf) || errors.As(err, &sf)
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status of a ServerFailure, or 0.
func StatusCode(err error) int {
	var sf *ServerFailure
	if errors.As(err, &sf) {
		return sf.StatusCode
	}
	return 0
}

// ServerMessage returns the server-provided message of a ServerFailure, if any.
func ServerMessage(err error) string {
	var sf *ServerFailure
	if errors.As(err, &sf) {
		return sf.Message
	}
	return ""
}

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/habedi/mscli/auth"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// StatusError is a non-2xx response from a backend service.
type StatusError struct {
	Status  int
	Message string
	Errors  map[string]string
	URL     string

	kind error
}

func (e *StatusError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for field, msg := range e.Errors {
		fmt.Fprintf(&b, "; %s: %s", field, msg)
	}
	return b.String()
}

// Unwrap exposes the auth sentinel for 401 and 403 responses.
func (e *StatusError) Unwrap() error { return e.kind }

// errorBody is the JSON error envelope the services answer with.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// readErrorBody drains and closes the body, returning at most maxErrorBody bytes.
func readErrorBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return body
}

// decodeError builds a StatusError from a response whose body was already read.
// Non-JSON bodies become the message verbatim.
func decodeError(resp *http.Response, body []byte, kind error) *StatusError {
	se := &StatusError{Status: resp.StatusCode, kind: kind}
	if resp.Request != nil {
		se.URL = resp.Request.URL.String()
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		se.Message = eb.Message
		if se.Message == "" {
			se.Message = eb.Error
		}
		se.Errors = eb.Errors
	} else {
		se.Message = strings.TrimSpace(string(body))
	}
	return se
}

// statusKind maps a status code to the auth sentinel it carries, if any.
func statusKind(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return auth.ErrUnauthorized
	case http.StatusForbidden:
		return auth.ErrForbidden
	default:
		return nil
	}
}

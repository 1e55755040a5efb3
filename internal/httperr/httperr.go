// Package httperr holds the status error shared by the REST clients.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any StatusError carrying a 404.
var ErrNotFound = errors.New("not found")

// HTTPError is satisfied by errors that carry an HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
	Err  error
}

func (e *StatusError) Error() string {
	msg := http.StatusText(e.StatusCode())
	if body := strings.TrimSpace(e.Body); body != "" {
		msg = fmt.Sprintf("%s: %s", msg, truncate(body, 200))
	}
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode(), msg, e.Err)
	}
	return fmt.Sprintf("%d %s", e.StatusCode(), msg)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// New builds a StatusError from a status code and raw body.
func New(code int, body string) *StatusError {
	return &StatusError{Code: code, Body: body}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures where no response was received.
	ErrTransport = errors.New("transport error")

	// ErrMalformed wraps responses whose body could not be decoded.
	ErrMalformed = errors.New("malformed response")

	// ErrNotFound is returned for 404 responses (via StatusError.Is).
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Status int
	Detail string // "detail" from the error payload, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ErrorDetail returns the server-supplied detail of err, or "".
func ErrorDetail(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

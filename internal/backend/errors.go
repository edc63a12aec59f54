package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport marks failures that never produced an HTTP response.
	ErrTransport = errors.New("backend: transport failure")
	// ErrSchema marks responses that decoded but violate the declared response shape.
	ErrSchema = errors.New("backend: unexpected response shape")
	// ErrNotFound matches StatusError values carrying a 404.
	ErrNotFound = errors.New("backend: not found")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Status int
	// Detail is the backend's human readable "detail" field, when present.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %s %s returned %d", e.Method, e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Message returns the text a page should show for err: the backend detail when
// one was sent, otherwise fallback.
func Message(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if detail := strings.TrimSpace(statusErr.Detail); detail != "" {
			return detail
		}
	}
	return fallback
}

// ViewMessage maps a read failure to the error line rendered inside a view.
func ViewMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "No data is available for this selection."
	case errors.Is(err, ErrTransport):
		return "Unable to reach the data service. Please try again later."
	case errors.Is(err, ErrSchema):
		return "The data service returned an unexpected response."
	default:
		return Message(err, "Failed to load data. Please try again later.")
	}
}

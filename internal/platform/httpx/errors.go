// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/samlap/samlap-web/internal/backend"
)

// ErrValidation marks a request the caller must correct.
var ErrValidation = errors.New("validation failed")

// RespondError maps domain and upstream errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, backend.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", backend.ViewMessage(err))
	case errors.Is(err, backend.ErrTransport), errors.Is(err, backend.ErrSchema):
		Problem(w, http.StatusBadGateway, "Upstream Error", backend.ViewMessage(err))
	case errors.As(err, &statusErr):
		Problem(w, http.StatusBadGateway, "Upstream Error", backend.ViewMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

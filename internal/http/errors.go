package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// writeServiceError maps service-layer errors onto the wire format. Anything
// unmapped is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	var lockErr *service.LockedOutError

	switch {
	case errors.As(err, &vErr):
		httpx.NewValidationError(vErr.Fields).Write(w)

	case errors.As(err, &lockErr):
		seconds := int(lockErr.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		minutes := (seconds + 59) / 60
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		(&httpx.APIError{
			StatusCode: http.StatusTooManyRequests,
			Code:       httpx.ErrorCodeLockedOut,
			Message:    fmt.Sprintf("Too many login attempts. Try again in %d minutes.", minutes),
		}).Write(w)

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidMFACode):
		httpx.ErrUnauthorized.Write(w)

	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrForbidden):
		httpx.ErrForbidden.Write(w)

	case errors.Is(err, store.ErrNotFound):
		httpx.ErrNotFound.Write(w)

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.ErrServerError.Write(w)
	}
}

package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"

	"github.com/bookvault/server/pkg/slogx"
)

// RecoverMiddleware converts handler panics into 500 responses and reports
// them to Sentry when a client is configured.
func RecoverMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetExtra("panic", rec)
						scope.SetExtra("stack", string(debug.Stack()))
						sentry.CaptureMessage("panic in request")
					})

					slogx.FromContext(r.Context()).Error("panic recovered",
						"path", r.URL.Path,
						"method", r.Method,
						"panic", rec,
					)

					ErrServerError.Write(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

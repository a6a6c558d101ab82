package httpx

import "net/http"

// RequireRole rejects requests whose token does not carry the given role.
// Must run after AuthnMiddleware.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if roleFromCtx(r.Context()) != role {
				ErrForbidden.Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

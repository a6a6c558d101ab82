package httpx

import "net/http"

// CookieToBearer translates a session cookie into an Authorization header so
// browser clients that hold the token in a cookie pass the same bearer-token
// pipeline as API clients. An existing Authorization header wins.
func CookieToBearer(cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
					r.Header.Set("Authorization", "Bearer "+c.Value)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bookvault/server/internal/metrics"
	"github.com/bookvault/server/internal/service"
	"github.com/bookvault/server/internal/store"
	"github.com/bookvault/server/pkg/httpx"
	"github.com/bookvault/server/pkg/slogx"
)

// SessionCookie is the cookie browser clients may hold the access token in.
// CookieToBearer folds it into the standard bearer pipeline.
const SessionCookie = "token"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier  httpx.TokenVerifier
	version   string
	startTime time.Time
	logger    *slog.Logger

	store store.Store

	AuthService *service.AuthService
	MFAService  *service.MFAService
	BookService *service.BookService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	version string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		verifier:  verifier,
		version:   version,
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	// Global middleware chain, outermost first
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.RecoverMiddleware(),
		httpx.CookieToBearer(SessionCookie),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerBooks()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}
	mfaHandler := &MFAHandler{MFAService: r.MFAService}

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - no IP token bucket here; brute force protection is the
	// per-email/address lockout inside the auth service
	r.Mux.Handle("POST /login", http.HandlerFunc(h.HandleLogin))

	// POST /verify-mfa - authenticated, strict limit to slow TOTP guessing
	r.Mux.Handle("POST /verify-mfa",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyMFA),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /enable-mfa - authenticated
	r.Mux.Handle("POST /enable-mfa",
		httpx.Chain(http.HandlerFunc(mfaHandler.HandleEnable),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	profileHandler := &ProfileHandler{AuthService: r.AuthService}
	accountHandler := &AccountHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET /user-profile",
		httpx.Chain(http.HandlerFunc(profileHandler.HandleProfile),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /change-email",
		httpx.Chain(http.HandlerFunc(accountHandler.HandleChangeEmail),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /change-password",
		httpx.Chain(http.HandlerFunc(accountHandler.HandleChangePassword),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBooks() {
	h := &BooksHandler{BookService: r.BookService}

	r.Mux.Handle("POST /books",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /books",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /books/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Deletion is admin only regardless of ownership
	r.Mux.Handle("DELETE /books/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /metrics", metrics.Handler())

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.version),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.version, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

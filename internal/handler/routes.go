package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/library-catalog/internal/service"
)

// Services bundles the dependencies of the HTTP surface. AuthLimiter may be
// nil to disable rate limiting on register and login.
type Services struct {
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Loans       *service.LoanService
	Users       *service.UserService
	Stats       *service.StatsService
	AuthLimiter *service.TokenBucket
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authHandler := NewAuthHandler(s.Auth)
	bookHandler := NewBookHandler(s.Catalog)
	loanHandler := NewLoanHandler(s.Loans)
	userHandler := NewUserHandler(s.Users)

	limited := func(h http.HandlerFunc) http.Handler {
		if s.AuthLimiter == nil {
			return h
		}
		return RateLimit(s.AuthLimiter, h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(s.Auth, h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(s.Auth, RequireAdmin(h))
	}

	mux.HandleFunc("GET /health", HandleHealth)

	mux.Handle("POST /api/auth/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.Handle("GET /api/auth/me", authed(authHandler.HandleMe))

	mux.Handle("GET /api/books", authed(bookHandler.HandleList))
	mux.Handle("GET /api/books/{id}", authed(bookHandler.HandleGet))
	mux.Handle("POST /api/books", admin(bookHandler.HandleCreate))
	mux.Handle("PUT /api/books/{id}", admin(bookHandler.HandleUpdate))
	mux.Handle("DELETE /api/books/{id}", admin(bookHandler.HandleDelete))

	mux.Handle("GET /api/loans", authed(loanHandler.HandleList))
	mux.Handle("POST /api/loans", authed(loanHandler.HandleBorrow))
	mux.Handle("POST /api/loans/{id}/return", authed(loanHandler.HandleReturn))

	mux.Handle("GET /api/users", admin(userHandler.HandleList))
	mux.Handle("PUT /api/users/{id}", admin(userHandler.HandleUpdateRole))

	mux.Handle("GET /api/stats", admin(HandleStats(s.Stats)))
}

// RouterConfig holds the HTTP settings that are not services.
type RouterConfig struct {
	CORSOrigins []string

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Only enable it behind a proxy that overwrites those headers;
	// otherwise clients pick their own rate-limit key.
	TrustProxyHeaders bool
}

// NewRouter returns the full HTTP handler: the routes wrapped in the request
// id, optional real IP, panic recovery, request logging, CORS and security
// header middleware, outermost first.
func NewRouter(s Services, rc RouterConfig) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, s)

	h := jsonFallback(mux)
	h = SecurityHeaders(h)
	h = CORS(rc.CORSOrigins)(h)
	h = RequestLogger(h)
	h = Recoverer(h)
	if rc.TrustProxyHeaders {
		h = middleware.RealIP(h)
	}
	h = middleware.RequestID(h)
	return h
}

// jsonFallback serves requests the mux has no route for with a JSON error
// body instead of the mux's plain-text 404 and 405 replies.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		// Run the mux's own reply against a scratch writer to learn the
		// status and Allow header it would send.
		sw := &statusWriter{header: http.Header{}, status: http.StatusNotFound}
		h.ServeHTTP(sw, r)

		if sw.status == http.StatusMethodNotAllowed {
			if allow := sw.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeError(w, http.StatusNotFound, "Not found")
	})
}

// statusWriter records the status and headers of a response and drops its body.
type statusWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
}

func (sw *statusWriter) Header() http.Header { return sw.header }

func (sw *statusWriter) WriteHeader(status int) {
	if !sw.wroteHeader {
		sw.status = status
		sw.wroteHeader = true
	}
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.WriteHeader(http.StatusOK)
	return len(b), nil
}

// pathID parses the {id} path segment. Non-integer ids are reported as 404,
// the same as an id that names nothing.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

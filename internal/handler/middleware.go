package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/pomodeck/internal/session"
)

// RequireSession protects routes that need a stored token. Page requests
// are redirected to the login form; datastar requests get an SSE redirect
// so the browser navigates instead of patching an error.
func RequireSession(state *session.State, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if state.LoggedIn(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r, false)
	})
}

// GuestOnly sends already-authenticated users away from login and sign-up.
// A request carrying ?expired is let through: the stored token was rejected
// by the backend and the user has to log in again.
func GuestOnly(state *session.State, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if state.LoggedIn(r.Context()) && !r.URL.Query().Has("expired") {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// redirectToLogin ends the request on the login page. expired adds the
// "please log in again" notice.
func redirectToLogin(w http.ResponseWriter, r *http.Request, expired bool) {
	target := "/login"
	if expired {
		target = "/login?expired=1"
	}
	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		sse.Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-eval' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LogRequests logs one line per request at debug level, and at warn level
// for server errors.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

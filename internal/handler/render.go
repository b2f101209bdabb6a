package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/view"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}

// statusFor maps a failure kind onto the HTTP status of the re-rendered page.
func statusFor(f *domain.Failure) int {
	if f == nil {
		return http.StatusOK
	}
	switch f.Kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindPrecondition:
		return http.StatusConflict
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindTransport:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// authFailed redirects to the login page when f is an expired session and
// reports whether it did.
func authFailed(w http.ResponseWriter, r *http.Request, f *domain.Failure) bool {
	if f == nil || f.Kind != domain.KindAuth {
		return false
	}
	redirectToLogin(w, r, true)
	return true
}

func renderError(w http.ResponseWriter, r *http.Request, title string, f *domain.Failure) {
	if authFailed(w, r, f) {
		return
	}
	status := statusFor(f)
	if status == http.StatusOK {
		status = http.StatusNotFound
	}
	render(w, r, status, view.ErrorPage(title, f.Message, true))
}

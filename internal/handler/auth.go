package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

// AuthHandler serves login, sign-up, logout, and the profile page.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if r.URL.Query().Get("expired") != "" {
		notice = "Your session has expired. Please log in again."
	}
	render(w, r, http.StatusOK, view.LoginPage("", "", notice))
}

// HandleLogin processes the login form.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	res := h.auth.Login(r.Context(), email, r.FormValue("password"))
	if !res.OK() {
		status := statusFor(res.Err)
		if status == http.StatusOK {
			status = http.StatusUnprocessableEntity
		}
		render(w, r, status, view.LoginPage(email, res.Message(), ""))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleRegisterPage renders the sign-up form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.RegisterPage("", "", ""))
}

// HandleRegister processes the sign-up form. The account is logged in on
// success.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	email, name := r.FormValue("email"), r.FormValue("name")
	res := h.auth.Register(r.Context(), email, name, r.FormValue("password"), r.FormValue("confirm_password"))
	if !res.OK() {
		status := statusFor(res.Err)
		if status == http.StatusOK {
			status = http.StatusUnprocessableEntity
		}
		render(w, r, status, view.RegisterPage(email, name, res.Message()))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout always ends the local session.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleProfile renders the profile page.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	res := h.auth.Profile(r.Context())
	if authFailed(w, r, res.Err) {
		return
	}
	render(w, r, statusFor(res.Err), view.ProfilePage(res.Data, h.expiry(r), res.Message(), ""))
}

// HandleUpdateProfile processes the profile form.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	res := h.auth.UpdateProfile(r.Context(), r.FormValue("name"), r.FormValue("email"))
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		current := h.auth.Profile(r.Context())
		render(w, r, statusFor(res.Err), view.ProfilePage(current.Data, h.expiry(r), res.Message(), ""))
		return
	}
	render(w, r, http.StatusOK, view.ProfilePage(res.Data, h.expiry(r), "", "Profile updated."))
}

func (h *AuthHandler) expiry(r *http.Request) time.Time {
	exp, _ := h.auth.TokenExpiry(r.Context())
	return exp
}

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/session"
)

// Registration is the outcome of a successful sign-up.
type Registration struct {
	User    domain.User
	Message string
}

// AuthService handles sign-up, login, logout, and the user's profile.
// Tokens are written to and cleared from the session state only here and
// in the renewer.
type AuthService struct {
	client   *api.Client
	state    *session.State
	throttle *Throttle
}

// NewAuthService creates a new AuthService. throttle may be nil.
func NewAuthService(client *api.Client, state *session.State, throttle *Throttle) *AuthService {
	return &AuthService{client: client, state: state, throttle: throttle}
}

// Register creates an account and stores the issued token.
func (s *AuthService) Register(ctx context.Context, email, name, password, confirm string) domain.Result[Registration] {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return fail[Registration](validation("Name, email and password are required."))
	}
	if password != confirm {
		return fail[Registration](validation("Passwords do not match."))
	}

	sess, msg, err := s.client.Register(ctx, api.RegisterInput{Email: email, Password: password, Name: name})
	if err != nil {
		return fail[Registration](verbatim(err, "Failed to register."))
	}
	if sess == nil || sess.Token == "" {
		return fail[Registration](&domain.Failure{Kind: domain.KindServer, Message: "Failed to register."})
	}
	if err := s.state.SetToken(ctx, sess.Token); err != nil {
		slog.Error("failed to store token", "error", err)
		return fail[Registration](&domain.Failure{Kind: domain.KindServer, Message: "Failed to save your session."})
	}
	if msg == "" {
		msg = "Account created."
	}
	return domain.Ok(Registration{User: sess.User, Message: msg})
}

// Login exchanges credentials for a token and stores it.
func (s *AuthService) Login(ctx context.Context, email, password string) domain.Result[domain.User] {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fail[domain.User](validation("Email and password are required."))
	}
	key := strings.ToLower(email)
	if s.throttle != nil && !s.throttle.Allow(key) {
		return fail[domain.User](validation("Too many login attempts. Please wait a moment and try again."))
	}

	sess, err := s.client.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		return fail[domain.User](verbatim(err, "Failed to log in."))
	}
	if sess == nil || sess.Token == "" {
		return fail[domain.User](&domain.Failure{Kind: domain.KindServer, Message: "Failed to log in."})
	}
	if err := s.state.SetToken(ctx, sess.Token); err != nil {
		slog.Error("failed to store token", "error", err)
		return fail[domain.User](&domain.Failure{Kind: domain.KindServer, Message: "Failed to save your session."})
	}
	if s.throttle != nil {
		s.throttle.Forget(key)
	}
	return domain.Ok(sess.User)
}

// Logout asks the backend to invalidate the session, then clears the local
// token regardless of the outcome.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		slog.Warn("logout request failed", "error", err)
	}
	if err := s.state.Clear(ctx); err != nil {
		slog.Error("failed to clear token", "error", err)
	}
}

// Profile returns the logged-in user's profile.
func (s *AuthService) Profile(ctx context.Context) domain.Result[*domain.User] {
	user, err := s.client.Me(ctx)
	return toResult(user, err, "Failed to load profile.")
}

// UpdateProfile changes the user's name and/or email. Blank values are
// left unchanged.
func (s *AuthService) UpdateProfile(ctx context.Context, name, email string) domain.Result[*domain.User] {
	var in api.ProfileUpdate
	if name = strings.TrimSpace(name); name != "" {
		in.Name = &name
	}
	if email = strings.TrimSpace(email); email != "" {
		in.Email = &email
	}
	if in.Name == nil && in.Email == nil {
		return fail[*domain.User](validation("Nothing to update."))
	}
	user, err := s.client.UpdateMe(ctx, in)
	return toResult(user, err, "Failed to update profile.")
}

// TokenExpiry reports when the stored token expires, if it can be read.
func (s *AuthService) TokenExpiry(ctx context.Context) (time.Time, bool) {
	token := s.state.Token(ctx)
	if token == "" {
		return time.Time{}, false
	}
	exp, err := session.TokenExpiry(token)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

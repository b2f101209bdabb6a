package api

import (
	"context"
	"net/http"

	"github.com/msomdec/pomodeck/internal/domain"
)

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of PUT /api/auth/me. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// AuthSession is the token and user issued on register/login.
type AuthSession struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// Register creates an account. Message is the server's confirmation text.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthSession, string, error) {
	var resp envelope[AuthSession]
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &resp); err != nil {
		return nil, "", err
	}
	return resp.Data, resp.Message, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, in LoginInput) (*AuthSession, error) {
	var resp envelope[AuthSession]
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Logout asks the backend to invalidate the session cookie and token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp envelope[domain.User]
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateMe changes the authenticated user's name or email.
func (c *Client) UpdateMe(ctx context.Context, in ProfileUpdate) (*domain.User, error) {
	var resp envelope[domain.User]
	if err := c.do(ctx, http.MethodPut, "/api/auth/me", in, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RenewToken requests a fresh token for the current session. It returns ""
// when the backend answered without one.
func (c *Client) RenewToken(ctx context.Context) (string, error) {
	var resp envelope[struct {
		Token string `json:"token"`
	}]
	if err := c.do(ctx, http.MethodPost, "/api/auth/renew-token", nil, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", nil
	}
	return resp.Data.Token, nil
}

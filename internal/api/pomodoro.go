package api

import (
	"context"
	"net/http"

	"github.com/msomdec/pomodeck/internal/domain"
)

// StartPomodoro opens a new ACTIVE session. The response carries expiresAt.
func (c *Client) StartPomodoro(ctx context.Context) (*domain.PomodoroSession, error) {
	return c.pomodoro(ctx, http.MethodPost, "/api/pomodoro/start", nil)
}

// CurrentPomodoro returns the latest session, or nil when the user has none.
func (c *Client) CurrentPomodoro(ctx context.Context) (*domain.PomodoroSession, error) {
	var session *domain.PomodoroSession
	if err := c.do(ctx, http.MethodGet, "/api/pomodoro/current", nil, &session); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Client) CompletePomodoro(ctx context.Context) (*domain.PomodoroSession, error) {
	return c.pomodoro(ctx, http.MethodPost, "/api/pomodoro/complete", nil)
}

func (c *Client) AbandonPomodoro(ctx context.Context, reason string) (*domain.PomodoroSession, error) {
	body := struct {
		AbandonmentReason string `json:"abandonmentReason"`
	}{reason}
	return c.pomodoro(ctx, http.MethodPost, "/api/pomodoro/abandon", body)
}

func (c *Client) ResetPomodoro(ctx context.Context) (*domain.PomodoroSession, error) {
	return c.pomodoro(ctx, http.MethodPost, "/api/pomodoro/reset", nil)
}

func (c *Client) pomodoro(ctx context.Context, method, path string, body any) (*domain.PomodoroSession, error) {
	var session *domain.PomodoroSession
	if err := c.do(ctx, method, path, body, &session); err != nil {
		return nil, err
	}
	return session, nil
}

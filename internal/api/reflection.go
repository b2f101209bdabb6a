package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/msomdec/pomodeck/internal/domain"
)

// ReflectionInput carries the reflection fields. PomodoroID is only sent on create.
type ReflectionInput struct {
	PomodoroID        string  `json:"pomodoroId,omitempty"`
	Topic             string  `json:"topic"`
	WhatIThought      string  `json:"whatIThought"`
	WhatItActuallyIs  string  `json:"whatItActuallyIs"`
	Summary           string  `json:"summary"`
	MandatoryQuestion string  `json:"mandatoryQuestion"`
	OptionalQuestion  *string `json:"optionalQuestion"`
}

func (c *Client) CreateReflection(ctx context.Context, in ReflectionInput) (*domain.Reflection, error) {
	var r domain.Reflection
	if err := c.do(ctx, http.MethodPost, "/api/reflections", in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetReflection(ctx context.Context, id string) (*domain.Reflection, error) {
	var r domain.Reflection
	if err := c.do(ctx, http.MethodGet, "/api/reflections/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetReflectionByPomodoro(ctx context.Context, pomodoroID string) (*domain.Reflection, error) {
	var r domain.Reflection
	if err := c.do(ctx, http.MethodGet, "/api/reflections/pomodoro/"+url.PathEscape(pomodoroID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ListReflections(ctx context.Context) ([]domain.Reflection, error) {
	var list []domain.Reflection
	if err := c.do(ctx, http.MethodGet, "/api/reflections/user/all", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) UpdateReflection(ctx context.Context, id string, in ReflectionInput) (*domain.Reflection, error) {
	in.PomodoroID = ""
	var r domain.Reflection
	if err := c.do(ctx, http.MethodPut, "/api/reflections/"+url.PathEscape(id), in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteReflection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reflections/"+url.PathEscape(id), nil, nil)
}

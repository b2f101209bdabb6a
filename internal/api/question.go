package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/msomdec/pomodeck/internal/domain"
)

func (c *Client) RandomQuestion(ctx context.Context) (*domain.Question, error) {
	var q domain.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions/random", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var list []domain.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	var q domain.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions/"+url.PathEscape(id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

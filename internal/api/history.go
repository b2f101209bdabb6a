package api

import (
	"context"
	"net/http"

	"github.com/msomdec/pomodeck/internal/domain"
)

func (c *Client) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/api/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) TodayStats(ctx context.Context) (*domain.TodayStats, error) {
	var stats domain.TodayStats
	if err := c.do(ctx, http.MethodGet, "/api/history/today", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) LifetimeStats(ctx context.Context) (*domain.LifetimeStats, error) {
	var stats domain.LifetimeStats
	if err := c.do(ctx, http.MethodGet, "/api/history/lifetime", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// HistoryOverview is everything the history page shows.
type HistoryOverview struct {
	Entries  []domain.HistoryEntry
	Today    domain.TodayStats
	Lifetime domain.LifetimeStats
}

// HistoryService loads finished sessions and aggregate statistics.
type HistoryService struct {
	client *api.Client
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(client *api.Client) *HistoryService {
	return &HistoryService{client: client}
}

// Overview fetches the history list and both stat blocks in parallel. Each
// part degrades independently to an empty list or zero stats.
func (s *HistoryService) Overview(ctx context.Context) HistoryOverview {
	var out HistoryOverview
	var g errgroup.Group
	g.Go(func() error {
		entries, err := s.client.History(ctx)
		if err != nil {
			slog.Warn("failed to load history", "error", err)
			return nil
		}
		out.Entries = entries
		return nil
	})
	g.Go(func() error {
		today, err := s.client.TodayStats(ctx)
		if err != nil || today == nil {
			slog.Warn("failed to load today stats", "error", err)
			return nil
		}
		out.Today = *today
		return nil
	})
	g.Go(func() error {
		lifetime, err := s.client.LifetimeStats(ctx)
		if err != nil || lifetime == nil {
			slog.Warn("failed to load lifetime stats", "error", err)
			return nil
		}
		out.Lifetime = *lifetime
		return nil
	})
	g.Wait()

	if out.Entries == nil {
		out.Entries = []domain.HistoryEntry{}
	}
	return out
}

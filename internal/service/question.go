package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/msomdec/pomodeck/internal/api"
)

const shuffleAttempts = 3

// QuestionService serves reflection prompts.
type QuestionService struct {
	client *api.Client
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(client *api.Client) *QuestionService {
	return &QuestionService{client: client}
}

// Another returns a random prompt that differs from current when the pool
// allows it. It never fails: when nothing new can be fetched, current is
// kept, or the placeholder when current is empty.
func (s *QuestionService) Another(ctx context.Context, current string) string {
	for range shuffleAttempts {
		q, err := s.client.RandomQuestion(ctx)
		if err != nil {
			slog.Debug("random question unavailable", "error", err)
			break
		}
		if text := strings.TrimSpace(q.Text); text != "" && text != current {
			return text
		}
	}
	if current == "" {
		return QuestionPlaceholder
	}
	return current
}

package api

import (
	"context"
	"net/http"

	"github.com/msomdec/pomodeck/internal/domain"
)

// ReviewCard submits a rating; the backend answers with the rescheduled card.
func (c *Client) ReviewCard(ctx context.Context, cardID string, rating domain.ReviewRating) (*domain.Card, error) {
	body := struct {
		CardID string              `json:"cardId"`
		Rating domain.ReviewRating `json:"rating"`
	}{cardID, rating}

	var card domain.Card
	if err := c.do(ctx, http.MethodPost, "/api/reviews", body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DueForReview lists every card currently due across all decks.
func (c *Client) DueForReview(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.do(ctx, http.MethodGet, "/api/reviews/due", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

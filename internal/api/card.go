package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/msomdec/pomodeck/internal/domain"
)

// CardInput is the body for creating (DeckID required) or updating a card.
type CardInput struct {
	DeckID string `json:"deckId,omitempty"`
	Front  string `json:"front,omitempty"`
	Back   string `json:"back,omitempty"`
}

func (c *Client) CreateCard(ctx context.Context, in CardInput) (*domain.Card, error) {
	var card domain.Card
	if err := c.do(ctx, http.MethodPost, "/api/cards", in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	var card domain.Card
	if err := c.do(ctx, http.MethodGet, "/api/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) ListCardsByDeck(ctx context.Context, deckID string) ([]domain.Card, error) {
	return c.cards(ctx, "/api/cards/deck/"+url.PathEscape(deckID))
}

func (c *Client) UpdateCard(ctx context.Context, id string, in CardInput) (*domain.Card, error) {
	in.DeckID = ""
	var card domain.Card
	if err := c.do(ctx, http.MethodPut, "/api/cards/"+url.PathEscape(id), in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/"+url.PathEscape(id), nil, nil)
}

// NewCards lists cards that have never been reviewed.
func (c *Client) NewCards(ctx context.Context) ([]domain.Card, error) {
	return c.cards(ctx, "/api/cards/stats/new")
}

// LearningCards lists cards still in the learning bucket.
func (c *Client) LearningCards(ctx context.Context) ([]domain.Card, error) {
	return c.cards(ctx, "/api/cards/stats/learning")
}

// DueCards lists cards whose nextReviewAt has elapsed.
func (c *Client) DueCards(ctx context.Context) ([]domain.Card, error) {
	return c.cards(ctx, "/api/cards/stats/due")
}

// DeckStats returns the bucket counts for one deck.
func (c *Client) DeckStats(ctx context.Context, deckID string) (*domain.DeckStats, error) {
	var stats domain.DeckStats
	if err := c.do(ctx, http.MethodGet, "/api/cards/stats/deck/"+url.PathEscape(deckID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DecksWithStats returns every deck together with its bucket counts.
func (c *Client) DecksWithStats(ctx context.Context) ([]domain.DeckWithStats, error) {
	var decks []domain.DeckWithStats
	if err := c.do(ctx, http.MethodGet, "/api/cards/stats/decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *Client) cards(ctx context.Context, path string) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.do(ctx, http.MethodGet, path, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

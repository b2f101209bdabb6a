package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/msomdec/pomodeck/internal/domain"
)

// DeckInput is the body for creating or updating a deck.
type DeckInput struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (c *Client) CreateDeck(ctx context.Context, in DeckInput) (*domain.Deck, error) {
	var deck domain.Deck
	if err := c.do(ctx, http.MethodPost, "/api/decks", in, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	var decks []domain.Deck
	if err := c.do(ctx, http.MethodGet, "/api/decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *Client) GetDeck(ctx context.Context, id string) (*domain.Deck, error) {
	var deck domain.Deck
	if err := c.do(ctx, http.MethodGet, "/api/decks/"+url.PathEscape(id), nil, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) UpdateDeck(ctx context.Context, id string, in DeckInput) (*domain.Deck, error) {
	var deck domain.Deck
	if err := c.do(ctx, http.MethodPut, "/api/decks/"+url.PathEscape(id), in, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) DeleteDeck(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/decks/"+url.PathEscape(id), nil, nil)
}

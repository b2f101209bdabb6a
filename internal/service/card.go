package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// CardService handles flashcard CRUD and the global bucket listings.
type CardService struct {
	client *api.Client
}

// NewCardService creates a new CardService.
func NewCardService(client *api.Client) *CardService {
	return &CardService{client: client}
}

// ListByDeck returns every card in a deck.
func (s *CardService) ListByDeck(ctx context.Context, deckID string) domain.Result[[]domain.Card] {
	cards, err := s.client.ListCardsByDeck(ctx, deckID)
	return toResult(cards, err, "Failed to load cards.")
}

// Create validates and adds a card to a deck.
func (s *CardService) Create(ctx context.Context, deckID, front, back string) domain.Result[*domain.Card] {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return fail[*domain.Card](validation("Front and back are required."))
	}
	card, err := s.client.CreateCard(ctx, api.CardInput{DeckID: deckID, Front: front, Back: back})
	return toResult(card, err, "Failed to create card.")
}

// Update changes a card's front and back.
func (s *CardService) Update(ctx context.Context, id, front, back string) domain.Result[*domain.Card] {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return fail[*domain.Card](validation("Front and back are required."))
	}
	card, err := s.client.UpdateCard(ctx, id, api.CardInput{Front: front, Back: back})
	return toResult(card, err, "Failed to update card.")
}

// Delete removes a card.
func (s *CardService) Delete(ctx context.Context, id string) domain.Result[struct{}] {
	err := s.client.DeleteCard(ctx, id)
	return toResult(struct{}{}, err, "Failed to delete card.")
}

// Buckets counts the user's new, learning, and due cards across all decks.
// The three listings are fetched in parallel; any failure fails the call.
func (s *CardService) Buckets(ctx context.Context) domain.Result[domain.DeckStats] {
	var stats domain.DeckStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := s.client.NewCards(gctx)
		stats.New = len(cards)
		return err
	})
	g.Go(func() error {
		cards, err := s.client.LearningCards(gctx)
		stats.Learning = len(cards)
		return err
	})
	g.Go(func() error {
		cards, err := s.client.DueCards(gctx)
		stats.Due = len(cards)
		return err
	})
	err := g.Wait()
	return toResult(stats, err, "Failed to load card statistics.")
}

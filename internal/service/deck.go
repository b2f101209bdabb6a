package service

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// statsConcurrency bounds the parallel per-deck stats fetches.
const statsConcurrency = 4

// DeckService handles deck CRUD and per-deck statistics.
type DeckService struct {
	client *api.Client
}

// NewDeckService creates a new DeckService.
func NewDeckService(client *api.Client) *DeckService {
	return &DeckService{client: client}
}

// List returns the user's decks.
func (s *DeckService) List(ctx context.Context) domain.Result[[]domain.Deck] {
	decks, err := s.client.ListDecks(ctx)
	return toResult(decks, err, "Failed to load decks.")
}

// Get returns a single deck.
func (s *DeckService) Get(ctx context.Context, id string) domain.Result[*domain.Deck] {
	deck, err := s.client.GetDeck(ctx, id)
	return toResult(deck, err, "Failed to load deck.")
}

// Create validates and creates a deck.
func (s *DeckService) Create(ctx context.Context, name, description string) domain.Result[*domain.Deck] {
	in, f := deckInput(name, description)
	if f != nil {
		return fail[*domain.Deck](f)
	}
	deck, err := s.client.CreateDeck(ctx, in)
	return toResult(deck, err, "Failed to create deck.")
}

// Update validates and updates a deck.
func (s *DeckService) Update(ctx context.Context, id, name, description string) domain.Result[*domain.Deck] {
	in, f := deckInput(name, description)
	if f != nil {
		return fail[*domain.Deck](f)
	}
	deck, err := s.client.UpdateDeck(ctx, id, in)
	return toResult(deck, err, "Failed to update deck.")
}

// Delete removes a deck and its cards.
func (s *DeckService) Delete(ctx context.Context, id string) domain.Result[struct{}] {
	err := s.client.DeleteDeck(ctx, id)
	return toResult(struct{}{}, err, "Failed to delete deck.")
}

// WithStats lists decks and fetches each deck's bucket counts in parallel.
// Results are keyed by deck id, so completion order does not matter; a
// deck whose stats fail to load reports zero counts.
func (s *DeckService) WithStats(ctx context.Context) domain.Result[[]domain.DeckWithStats] {
	decks, err := s.client.ListDecks(ctx)
	if err != nil {
		return toResult[[]domain.DeckWithStats](nil, err, "Failed to load decks.")
	}

	stats := make(map[string]domain.DeckStats, len(decks))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for _, d := range decks {
		g.Go(func() error {
			st, err := s.client.DeckStats(gctx, d.ID)
			if err != nil || st == nil {
				return nil
			}
			mu.Lock()
			stats[d.ID] = *st
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	out := make([]domain.DeckWithStats, 0, len(decks))
	for _, d := range decks {
		out = append(out, domain.DeckWithStats{Deck: d, Stats: stats[d.ID]})
	}
	return domain.Ok(out)
}

// Stats returns the bucket counts for one deck.
func (s *DeckService) Stats(ctx context.Context, id string) domain.Result[*domain.DeckStats] {
	st, err := s.client.DeckStats(ctx, id)
	return toResult(st, err, "Failed to load deck statistics.")
}

func deckInput(name, description string) (api.DeckInput, *domain.Failure) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.DeckInput{}, validation("Deck name is required.")
	}
	in := api.DeckInput{Name: name}
	if description = strings.TrimSpace(description); description != "" {
		in.Description = &description
	}
	return in, nil
}

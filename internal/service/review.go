package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// ReviewView is a snapshot of a review session.
type ReviewView struct {
	DeckID    string
	Current   *domain.Card
	Remaining int
	Reviewed  int
	Elapsed   time.Duration
	Done      bool
	Notice    string
	Busy      bool
}

// ReviewSession is an in-memory queue of due cards. Rating a card removes
// it from the front of the sequence; a reviewed id never re-enters the
// queue until the next Load starts a new session.
type ReviewSession struct {
	client *api.Client
	now    func() time.Time

	mu        sync.Mutex
	gen       uint64
	deckID    string
	queue     []domain.Card
	reviewed  map[string]struct{}
	count     int
	startedAt time.Time
	notice    string
	busy      bool
}

// NewReviewSession creates an empty review session.
func NewReviewSession(client *api.Client) *ReviewSession {
	return &ReviewSession{client: client, now: time.Now, reviewed: make(map[string]struct{})}
}

// Load fetches the due set, optionally filtered to deckID, and starts a new
// session. If another Load is issued before this one resolves, this
// response is discarded.
func (s *ReviewSession) Load(ctx context.Context, deckID string) domain.Result[ReviewView] {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	cards, err := s.client.DueForReview(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		slog.Debug("dropping stale review load", "generation", gen, "latest", s.gen)
		return domain.Ok(s.view())
	}

	s.deckID = deckID
	s.queue = nil
	s.reviewed = make(map[string]struct{})
	s.count = 0
	s.startedAt = s.now()
	s.notice = ""
	s.busy = false

	if err != nil {
		return toResult(s.view(), err, "Failed to load cards for review.")
	}
	for _, c := range cards {
		if deckID == "" || c.DeckID == deckID {
			s.queue = append(s.queue, c)
		}
	}
	if len(s.queue) == 0 {
		if deckID != "" {
			s.notice = "No cards are due for review in this deck right now."
		} else {
			s.notice = "No cards are due for review right now."
		}
	}
	return domain.Ok(s.view())
}

// Rate posts a rating for cardID. On success the card leaves the queue and
// the reviewed count increments; on failure the queue is unchanged so the
// same card can be retried.
func (s *ReviewSession) Rate(ctx context.Context, cardID string, rating domain.ReviewRating) domain.Result[ReviewView] {
	if !rating.Valid() {
		return fail[ReviewView](validation("Choose WRONG, GOOD or EASY."))
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return fail[ReviewView](validation(msgBusy))
	}
	if _, done := s.reviewed[cardID]; done {
		s.mu.Unlock()
		return fail[ReviewView](precondition("This card has already been reviewed."))
	}
	if !slices.ContainsFunc(s.queue, func(c domain.Card) bool { return c.ID == cardID }) {
		s.mu.Unlock()
		return fail[ReviewView](precondition("This card is not in the review queue."))
	}
	s.busy = true
	gen := s.gen
	s.mu.Unlock()

	_, err := s.client.ReviewCard(ctx, cardID, rating)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return domain.Ok(s.view())
	}
	s.busy = false
	if err != nil {
		return toResult(s.view(), err, "Failed to review card.")
	}
	s.queue = slices.DeleteFunc(s.queue, func(c domain.Card) bool { return c.ID == cardID })
	s.reviewed[cardID] = struct{}{}
	s.count++
	return domain.Ok(s.view())
}

// View returns the current snapshot.
func (s *ReviewSession) View() ReviewView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Queue returns a copy of the remaining cards in order.
func (s *ReviewSession) Queue() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

func (s *ReviewSession) view() ReviewView {
	v := ReviewView{
		DeckID:    s.deckID,
		Remaining: len(s.queue),
		Reviewed:  s.count,
		Done:      len(s.queue) == 0 && s.count > 0,
		Notice:    s.notice,
		Busy:      s.busy,
	}
	if !s.startedAt.IsZero() {
		v.Elapsed = s.now().Sub(s.startedAt)
	}
	if len(s.queue) > 0 {
		c := s.queue[0]
		v.Current = &c
	}
	return v
}

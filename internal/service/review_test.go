package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
)

func TestReviewSession_RateFailureKeepsCard(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	deck := backend.AddDeck("Go", domain.DeckStats{Due: 2})
	cardA := backend.AddDueCard(deck.ID, "A", "a")
	cardB := backend.AddDueCard(deck.ID, "B", "b")
	sess := service.NewReviewSession(client)
	ctx := context.Background()

	if res := sess.Load(ctx, ""); !res.OK() || res.Data.Remaining != 2 {
		t.Fatalf("Load: %+v", res)
	}

	res := sess.Rate(ctx, cardA.ID, domain.RatingGood)
	if !res.OK() {
		t.Fatalf("Rate A: %s", res.Message())
	}
	if res.Data.Reviewed != 1 || res.Data.Current == nil || res.Data.Current.ID != cardB.ID {
		t.Fatalf("expected [B] with 1 reviewed, got %+v", res.Data)
	}

	backend.FailOnce("POST /api/reviews", http.StatusServiceUnavailable, "Review service unavailable")
	res = sess.Rate(ctx, cardB.ID, domain.RatingWrong)
	if res.OK() {
		t.Fatal("expected Rate B to fail")
	}
	if res.Message() != "Review service unavailable" {
		t.Fatalf("unexpected message %q", res.Message())
	}
	v := sess.View()
	if v.Reviewed != 1 || v.Remaining != 1 || v.Current.ID != cardB.ID {
		t.Fatalf("expected [B] with 1 reviewed after failure, got %+v", v)
	}

	// Retry the same card.
	if res := sess.Rate(ctx, cardB.ID, domain.RatingWrong); !res.OK() {
		t.Fatalf("retry Rate B: %s", res.Message())
	}
}

func TestReviewSession_AllRatedYieldsSummary(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	deck := backend.AddDeck("Go", domain.DeckStats{})
	const n = 5
	for i := 0; i < n; i++ {
		backend.AddDueCard(deck.ID, "front", "back")
	}
	sess := service.NewReviewSession(client)
	ctx := context.Background()
	sess.Load(ctx, "")

	for {
		v := sess.View()
		if v.Current == nil {
			break
		}
		if res := sess.Rate(ctx, v.Current.ID, domain.RatingEasy); !res.OK() {
			t.Fatalf("Rate: %s", res.Message())
		}
	}

	v := sess.View()
	if v.Reviewed != n || v.Remaining != 0 || !v.Done {
		t.Fatalf("expected %d reviewed and empty queue, got %+v", n, v)
	}
	if len(sess.Queue()) != 0 {
		t.Fatal("expected empty queue")
	}
}

func TestReviewSession_RatedCardNeverReappears(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	deck := backend.AddDeck("Go", domain.DeckStats{})
	card := backend.AddDueCard(deck.ID, "A", "a")
	backend.AddDueCard(deck.ID, "B", "b")
	sess := service.NewReviewSession(client)
	ctx := context.Background()
	sess.Load(ctx, "")

	if !sess.Rate(ctx, card.ID, domain.RatingGood).OK() {
		t.Fatal("first Rate failed")
	}
	res := sess.Rate(ctx, card.ID, domain.RatingGood)
	if res.OK() || res.Err.Kind != domain.KindPrecondition {
		t.Fatalf("expected precondition error on re-rate, got %+v", res)
	}
	if n := backend.Calls("POST /api/reviews"); n != 1 {
		t.Fatalf("expected exactly one review request, got %d", n)
	}
	for _, c := range sess.Queue() {
		if c.ID == card.ID {
			t.Fatal("rated card reappeared in queue")
		}
	}
}

func TestReviewSession_DeckFilterAndEmptyNotice(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	goDeck := backend.AddDeck("Go", domain.DeckStats{})
	rustDeck := backend.AddDeck("Rust", domain.DeckStats{})
	backend.AddDueCard(goDeck.ID, "A", "a")
	backend.AddDueCard(goDeck.ID, "B", "b")
	sess := service.NewReviewSession(client)
	ctx := context.Background()

	res := sess.Load(ctx, goDeck.ID)
	if !res.OK() || res.Data.Remaining != 2 {
		t.Fatalf("expected 2 cards for Go deck, got %+v", res)
	}

	res = sess.Load(ctx, rustDeck.ID)
	if !res.OK() {
		t.Fatalf("Load: %s", res.Message())
	}
	if res.Data.Remaining != 0 || res.Data.Notice == "" || res.Data.Done {
		t.Fatalf("expected informational notice for empty deck, got %+v", res.Data)
	}
}

func TestReviewSession_InvalidRating(t *testing.T) {
	_, _, client := newLoggedIn(t)
	sess := service.NewReviewSession(client)

	res := sess.Rate(context.Background(), "card-1", domain.ReviewRating("MEH"))
	if res.OK() || res.Err.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %+v", res)
	}
}

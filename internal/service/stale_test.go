package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
)

// waitArrived blocks until a held backend call has been served.
func waitArrived(t *testing.T, arrived <-chan struct{}) {
	t.Helper()
	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("held call never reached the backend")
	}
}

func TestPomodoroTimer_RefreshDropsStaleResponse(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	now := time.Now()
	backend.SetCurrent(&domain.PomodoroSession{ID: "old", Status: domain.PomodoroActive, StartedAt: now, ExpiresAt: now.Add(20 * time.Minute)})
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	arrived, release := backend.Hold("GET /api/pomodoro/current")
	defer release()
	first := make(chan domain.Result[*domain.PomodoroSession], 1)
	go func() { first <- timer.Refresh(ctx) }()
	waitArrived(t, arrived)

	backend.SetCurrent(&domain.PomodoroSession{ID: "new", Status: domain.PomodoroCompleted, StartedAt: now, ExpiresAt: now})
	if res := timer.Refresh(ctx); !res.OK() || res.Data.ID != "new" {
		t.Fatalf("second Refresh: %+v", res)
	}

	release()
	if res := <-first; !res.OK() || res.Data.ID != "old" {
		t.Fatalf("expected the held response to carry the old session, got %+v", res)
	}
	if v := timer.View(now); v.Session == nil || v.Session.ID != "new" {
		t.Fatalf("expected the newer session to win, got %+v", v.Session)
	}
}

func TestReviewSession_LoadDropsStaleResponse(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	deck := backend.AddDeck("Go", domain.DeckStats{})
	backend.AddDueCard(deck.ID, "A", "a")
	backend.AddDueCard(deck.ID, "B", "b")
	sess := service.NewReviewSession(client)
	ctx := context.Background()

	arrived, release := backend.Hold("GET /api/reviews/due")
	defer release()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Load(ctx, "")
	}()
	waitArrived(t, arrived)

	backend.AddDueCard(deck.ID, "C", "c")
	if res := sess.Load(ctx, ""); !res.OK() || res.Data.Remaining != 3 {
		t.Fatalf("second Load: %+v", res)
	}

	release()
	<-done
	if v := sess.View(); v.Remaining != 3 {
		t.Fatalf("expected the newer queue of 3 to win, got %d", v.Remaining)
	}
}

func TestReviewSession_RateAfterNewerLoadIsDropped(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	deck := backend.AddDeck("Go", domain.DeckStats{})
	cardA := backend.AddDueCard(deck.ID, "A", "a")
	cardB := backend.AddDueCard(deck.ID, "B", "b")
	sess := service.NewReviewSession(client)
	ctx := context.Background()

	if res := sess.Load(ctx, ""); !res.OK() || res.Data.Remaining != 2 {
		t.Fatalf("Load: %+v", res)
	}

	arrived, release := backend.Hold("POST /api/reviews")
	defer release()
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Rate(ctx, cardA.ID, domain.RatingGood)
	}()
	waitArrived(t, arrived)

	// The backend has already rated A, so the new session starts at B.
	if res := sess.Load(ctx, ""); !res.OK() || res.Data.Remaining != 1 {
		t.Fatalf("second Load: %+v", res)
	}

	release()
	<-done
	v := sess.View()
	if v.Reviewed != 0 || v.Remaining != 1 || v.Current == nil || v.Current.ID != cardB.ID {
		t.Fatalf("expected the late rating to leave the new session alone, got %+v", v)
	}
	if v.Busy {
		t.Fatal("expected the new session not to be busy")
	}
}

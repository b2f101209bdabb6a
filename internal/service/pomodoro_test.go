package service_test

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
)

func TestPomodoroTimer_StartRemainingMatchesExpiry(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	res := timer.Start(ctx)
	if !res.OK() {
		t.Fatalf("Start: %s", res.Message())
	}
	now := time.Now()
	want := math.Round(res.Data.ExpiresAt.Sub(now).Seconds())
	got := timer.Remaining(now).Seconds()
	if math.Abs(got-want) > 1 {
		t.Fatalf("remaining %vs, want %vs within 1s", got, want)
	}
	if backend.Current().Status != domain.PomodoroActive {
		t.Fatal("expected backend session to be ACTIVE")
	}
}

func TestPomodoroTimer_RemainingDerivedFromExpiry(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	backend.SetNow(func() time.Time { return start })
	timer := service.NewPomodoroTimer(client, 20*time.Minute)
	ctx := context.Background()

	if !timer.Start(ctx).OK() {
		t.Fatal("Start failed")
	}

	// A suspended process that wakes up later sees the true remaining time.
	if got := timer.Remaining(start.Add(7 * time.Minute)); got != 13*time.Minute {
		t.Fatalf("expected 13m, got %v", got)
	}
	if got := timer.Remaining(start.Add(time.Hour)); got != 0 {
		t.Fatalf("expected 0 after expiry, got %v", got)
	}

	v := timer.View(start.Add(5 * time.Minute))
	if !v.Running || v.Clock != "15:00" || v.CanComplete {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Progress != 0.25 {
		t.Fatalf("expected progress 0.25, got %v", v.Progress)
	}
	if v := timer.View(start.Add(20 * time.Minute)); !v.CanComplete {
		t.Fatal("expected complete to be offered at zero")
	}
}

func TestPomodoroTimer_IdleShowsFocus(t *testing.T) {
	_, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)

	v := timer.View(time.Now())
	if v.Running || v.Clock != "20:00" {
		t.Fatalf("expected idle 20:00, got %+v", v)
	}
}

func TestPomodoroTimer_AbandonEmptyReasonNoNetwork(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	for _, reason := range []string{"", "   "} {
		res := timer.Abandon(ctx, reason)
		if res.OK() || res.Err.Kind != domain.KindValidation {
			t.Fatalf("expected validation error for %q, got %+v", reason, res)
		}
	}
	if n := backend.Calls("POST /api/pomodoro/abandon"); n != 0 {
		t.Fatalf("expected no network call, got %d", n)
	}
}

func TestPomodoroTimer_FailureLeavesStateUnchanged(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	started := timer.Start(ctx)
	if !started.OK() {
		t.Fatalf("Start: %s", started.Message())
	}

	backend.FailOnce("POST /api/pomodoro/abandon", http.StatusInternalServerError, "Database unavailable")
	res := timer.Abandon(ctx, "meeting")
	if res.OK() {
		t.Fatal("expected abandon to fail")
	}
	if res.Message() != "Database unavailable" {
		t.Fatalf("expected server message verbatim, got %q", res.Message())
	}
	if s := timer.Session(); s == nil || s.Status != domain.PomodoroActive || s.ID != started.Data.ID {
		t.Fatalf("expected local session unchanged, got %+v", s)
	}

	// Retry is safe.
	res = timer.Abandon(ctx, "meeting")
	if !res.OK() {
		t.Fatalf("retry Abandon: %s", res.Message())
	}
	if timer.Session().Status != domain.PomodoroAbandoned {
		t.Fatal("expected ABANDONED after retry")
	}
}

func TestPomodoroTimer_StartWhileActiveConflict(t *testing.T) {
	_, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	timer.Start(ctx)
	res := timer.Start(ctx)
	if res.OK() {
		t.Fatal("expected conflict")
	}
	if res.Err.Kind != domain.KindServer {
		t.Fatalf("expected server kind, got %s", res.Err.Kind)
	}
}

func TestPomodoroTimer_CompleteAndRefresh(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	timer := service.NewPomodoroTimer(client, 0)
	ctx := context.Background()

	timer.Start(ctx)
	res := timer.Complete(ctx)
	if !res.OK() || res.Data.Status != domain.PomodoroCompleted {
		t.Fatalf("Complete: %+v", res)
	}

	other := service.NewPomodoroTimer(client, 0)
	if r := other.Refresh(ctx); !r.OK() || r.Data.Status != domain.PomodoroCompleted {
		t.Fatalf("Refresh: %+v", r)
	}
	if other.View(time.Now()).Running {
		t.Fatal("completed session should not be running")
	}
	if backend.Calls("GET /api/pomodoro/current") != 1 {
		t.Fatal("expected one current request")
	}
}

func TestPomodoroTimer_ReachedZeroFiresOnce(t *testing.T) {
	backend, _, client := newLoggedIn(t)
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	backend.SetNow(func() time.Time { return start })
	timer := service.NewPomodoroTimer(client, 20*time.Minute)
	ctx := context.Background()
	timer.Start(ctx)

	if timer.ReachedZero(start.Add(10 * time.Minute)) {
		t.Fatal("should not fire before expiry")
	}
	end := start.Add(20 * time.Minute)
	if !timer.ReachedZero(end) {
		t.Fatal("expected to fire at zero")
	}
	if timer.ReachedZero(end.Add(time.Second)) {
		t.Fatal("expected to fire only once")
	}

	// Reset gives a new countdown that can fire again.
	backend.SetNow(func() time.Time { return end })
	if !timer.Reset(ctx).OK() {
		t.Fatal("Reset failed")
	}
	if !timer.ReachedZero(end.Add(20 * time.Minute)) {
		t.Fatal("expected new countdown to fire")
	}
}

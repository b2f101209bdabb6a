package view_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

func TestTimerFragment_Idle(t *testing.T) {
	var buf bytes.Buffer
	v := service.TimerView{Clock: "20:00"}
	if err := view.TimerFragment(v, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `id="timer-clock"`) || !strings.Contains(out, "20:00") {
		t.Errorf("expected clock, got %s", out)
	}
	if !strings.Contains(out, "@post('/pomodoro/start')") {
		t.Error("expected start button when idle")
	}
	if strings.Contains(out, "/pomodoro/abandon") {
		t.Error("expected no abandon button when idle")
	}
}

func TestTimerFragment_Running(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	v := service.TimerView{
		Session:  &domain.PomodoroSession{ID: "p-1", Status: domain.PomodoroActive, StartedAt: now, ExpiresAt: now.Add(time.Minute)},
		Running:  true,
		Clock:    "01:00",
		Progress: 0.5,
	}
	if err := view.TimerFragment(v, "Could not reach the server.").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/pomodoro/abandon", "/pomodoro/reset", `<progress max="100" value="50">`, "Could not reach the server."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
	if strings.Contains(out, "/pomodoro/complete") {
		t.Error("expected no complete button before the countdown ends")
	}
}

func TestReviewFragment_EscapesCardText(t *testing.T) {
	var buf bytes.Buffer
	card := domain.Card{ID: "c-1", Front: "<b>front</b>", Back: "a & b"}
	v := service.ReviewView{Current: &card, Remaining: 1}
	if err := view.ReviewFragment(v, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>front</b>") {
		t.Error("expected card front to be escaped")
	}
	if !strings.Contains(out, "a &amp; b") {
		t.Error("expected card back to be escaped")
	}
	if !strings.Contains(out, "rating=WRONG") || !strings.Contains(out, "rating=EASY") {
		t.Error("expected rating buttons")
	}
}

func TestReviewFragment_DoneShowsError(t *testing.T) {
	var buf bytes.Buffer
	v := service.ReviewView{Done: true, Reviewed: 1, Elapsed: 90 * time.Second}
	if err := view.ReviewFragment(v, "This card has already been reviewed.").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Review complete!", "<strong>1</strong> card reviewed", "This card has already been reviewed."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestReflectionsPage_SearchEscapesQuery(t *testing.T) {
	var buf bytes.Buffer
	if err := view.ReflectionsPage(nil, `"><script>`, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `"><script>`) {
		t.Error("expected the query to be escaped")
	}
	if !strings.Contains(out, "No reflections match your search.") {
		t.Error("expected the no-match notice")
	}
}

func TestHistoryPage_Stats(t *testing.T) {
	var buf bytes.Buffer
	o := service.HistoryOverview{
		Today:    domain.TodayStats{SessionsToday: 2, FocusedTimeToday: 90},
		Lifetime: domain.LifetimeStats{TotalSessions: 12, TotalTimeElapsed: 240},
	}
	if err := view.HistoryPage(o).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1h 30min", "4h", "No sessions recorded yet."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q", want)
		}
	}
}

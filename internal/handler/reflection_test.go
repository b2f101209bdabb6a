package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
)

func reflectionForm(pomodoroID string) url.Values {
	return url.Values{
		"pomodoro_id":         {pomodoroID},
		"prompt":              {"What surprised you?"},
		"topic":               {"Channels"},
		"what_i_thought":      {"Queues"},
		"what_it_actually_is": {"Typed conduits with synchronization"},
		"summary":             {"Unbuffered channels hand off values"},
		"mandatory_question":  {"Pipes between goroutines"},
	}
}

func completedSession(app *testApp) string {
	now := time.Now().UTC()
	app.backend.SetCurrent(&domain.PomodoroSession{
		ID: "pomodoro-done", Status: domain.PomodoroCompleted,
		StartedAt: now.Add(-20 * time.Minute), ExpiresAt: now, EndedAt: &now,
	})
	return "pomodoro-done"
}

func TestReflectionNew_ShowsRandomQuestion(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.AddQuestion("What surprised you?")

	resp, body := app.get(t, "/reflections/new?pomodoro=p-7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "What surprised you?") {
		t.Error("expected random question as prompt")
	}
	if !strings.Contains(body, `name="pomodoro_id" value="p-7"`) {
		t.Error("expected the form to be bound to the pomodoro")
	}
}

func TestReflectionNew_FallsBackToPlaceholder(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, body := app.get(t, "/reflections/new")
	if !strings.Contains(body, "Is there anything else you want to write down about this topic?") {
		t.Error("expected placeholder prompt without questions")
	}
}

func TestReflectionCreate_UsesCompletedSession(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	id := completedSession(app)

	resp, _ := app.postForm(t, "/reflections", reflectionForm(""))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Location"), "/reflections/reflection-") {
		t.Errorf("expected redirect to the reflection, got %q", resp.Header.Get("Location"))
	}
	if got := app.backend.LastBody("POST /api/reflections")["pomodoroId"]; got != id {
		t.Errorf("expected pomodoroId %s, got %v", id, got)
	}
}

func TestReflectionCreate_WithoutCompletedSession(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.postForm(t, "/reflections", reflectionForm(""))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "No completed pomodoro session found. Complete a session first.") {
		t.Error("expected no-completion message")
	}
	if app.backend.Calls("POST /api/reflections") != 0 {
		t.Error("expected no create call")
	}
}

func TestReflectionCreate_ValidationKeepsInput(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	form := reflectionForm("p-1")
	form.Set("topic", "  ")

	resp, body := app.postForm(t, "/reflections", form)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Topic is required.") {
		t.Error("expected validation message")
	}
	if !strings.Contains(body, "Unbuffered channels hand off values") {
		t.Error("expected typed summary to survive the re-render")
	}
	if !strings.Contains(body, "What surprised you?") {
		t.Error("expected the prompt to survive the re-render")
	}
}

func TestReflectionForPomodoro(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.get(t, "/pomodoro/p-1/reflection")
	if loc := resp.Header.Get("Location"); loc != "/reflections/new?pomodoro=p-1" {
		t.Errorf("expected new form, got %q", loc)
	}

	r := app.backend.AddReflection(domain.Reflection{PomodoroID: "p-1", Topic: "Maps"})
	resp, _ = app.get(t, "/pomodoro/p-1/reflection")
	if loc := resp.Header.Get("Location"); loc != "/reflections/"+r.ID {
		t.Errorf("expected existing reflection, got %q", loc)
	}
}

func TestReflectionEditAndUpdate(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	r := app.backend.AddReflection(domain.Reflection{PomodoroID: "p-1", Topic: "Maps", Summary: "Hash tables"})

	_, body := app.get(t, "/reflections/"+r.ID+"/edit")
	if !strings.Contains(body, `value="Maps"`) {
		t.Error("expected form pre-filled with the topic")
	}
	if !strings.Contains(body, `action="/reflections/`+r.ID+`"`) {
		t.Error("expected the form to post to the reflection")
	}

	resp, _ := app.postForm(t, "/reflections/"+r.ID, reflectionForm(""))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	got, _ := app.backend.Reflection(r.ID)
	if got.Topic != "Channels" {
		t.Errorf("expected updated topic, got %q", got.Topic)
	}
	if app.backend.Calls("POST /api/reflections") != 0 {
		t.Error("expected update, not create")
	}
}

func TestReflectionDelete(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	r := app.backend.AddReflection(domain.Reflection{PomodoroID: "p-1", Topic: "Maps"})

	resp, _ := app.postForm(t, "/reflections/"+r.ID+"/delete", url.Values{})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/reflections" {
		t.Fatalf("expected 303 to /reflections, got %d", resp.StatusCode)
	}
	if _, ok := app.backend.Reflection(r.ID); ok {
		t.Error("expected reflection deleted")
	}
}

func TestReflections_ListAndMissing(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.AddReflection(domain.Reflection{PomodoroID: "p-1", Topic: "Interfaces", CreatedAt: time.Now()})

	_, body := app.get(t, "/reflections")
	if !strings.Contains(body, "Interfaces") {
		t.Error("expected reflection in list")
	}

	resp, _ := app.get(t, "/reflections/reflection-404")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestReflections_Search(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.AddReflection(domain.Reflection{PomodoroID: "p-1", Topic: "Interfaces", Summary: "implicit satisfaction", CreatedAt: time.Now()})
	app.backend.AddReflection(domain.Reflection{PomodoroID: "p-2", Topic: "Channels", Summary: "Share memory by communicating", CreatedAt: time.Now()})

	_, body := app.get(t, "/reflections?q=MEMORY")
	if !strings.Contains(body, "Channels") || strings.Contains(body, "Interfaces") {
		t.Errorf("expected only the summary match, got %s", body)
	}
	if !strings.Contains(body, `value="MEMORY"`) {
		t.Error("expected the query to stay in the search box")
	}

	_, body = app.get(t, "/reflections?q=nothing-like-this")
	if !strings.Contains(body, "No reflections match your search.") {
		t.Error("expected the no-match notice")
	}
}

func TestHistory_DegradesIndependently(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.SetHistory(
		[]domain.HistoryEntry{{ID: "p-1", Topic: "Generics", Status: domain.PomodoroCompleted, Duration: 20, CreatedAt: time.Now()}},
		domain.TodayStats{SessionsToday: 1, FocusedTimeToday: 20},
		domain.LifetimeStats{TotalSessions: 9},
	)
	app.backend.Fail("GET /api/history/lifetime", http.StatusInternalServerError, "boom")

	resp, body := app.get(t, "/history")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Generics") || !strings.Contains(body, "20min") {
		t.Error("expected history entry and today stats")
	}
}

func TestReflectionQuestion_Shuffles(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.AddQuestion("What surprised you?")
	app.backend.AddQuestion("Where would you use it?")

	q := url.Values{"datastar": {`{"prompt":"What surprised you?"}`}}
	_, body := app.datastar(t, http.MethodGet, "/reflections/question?"+q.Encode(), "")
	if !strings.Contains(body, `id="prompt"`) || !strings.Contains(body, "Where would you use it?") {
		t.Errorf("expected new prompt patch, got %s", body)
	}
}

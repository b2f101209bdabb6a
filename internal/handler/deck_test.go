package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/msomdec/pomodeck/internal/domain"
)

func TestDecks_CreateAndView(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.postForm(t, "/decks", url.Values{"name": {"Go"}, "description": {"Concurrency"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/decks/") {
		t.Fatalf("expected redirect to the deck, got %q", loc)
	}

	resp, body := app.get(t, loc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<h1>Go</h1>") || !strings.Contains(body, "Concurrency") {
		t.Error("expected deck name and description")
	}

	_, body = app.get(t, "/decks")
	if !strings.Contains(body, `href="`+loc+`"`) {
		t.Error("expected deck in list")
	}
}

func TestDecks_CreateRequiresName(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.postForm(t, "/decks", url.Values{"name": {"   "}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Deck name is required.") {
		t.Error("expected validation message")
	}
	if app.backend.Calls("POST /api/decks") != 0 {
		t.Error("expected no backend call")
	}
}

func TestDecks_NameIsEscaped(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	d := app.backend.AddDeck("<script>x</script>", domain.DeckStats{})

	_, body := app.get(t, "/decks/"+d.ID)
	if strings.Contains(body, "<script>x</script>") {
		t.Error("expected deck name to be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;x&lt;/script&gt;") {
		t.Error("expected escaped deck name")
	}
}

func TestDecks_MissingDeck(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.get(t, "/decks/deck-404")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Deck not found.") {
		t.Error("expected server message")
	}
}

func TestDecks_CardLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	d := app.backend.AddDeck("Go", domain.DeckStats{})
	deckPath := "/decks/" + d.ID

	resp, _ := app.postForm(t, deckPath+"/cards", url.Values{"front": {"What is a goroutine?"}, "back": {"A lightweight thread"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != deckPath {
		t.Fatalf("expected 303 to %s, got %d %q", deckPath, resp.StatusCode, resp.Header.Get("Location"))
	}
	if got := app.backend.LastBody("POST /api/cards")["deckId"]; got != d.ID {
		t.Errorf("expected deckId %s, got %v", d.ID, got)
	}

	_, body := app.get(t, deckPath)
	if !strings.Contains(body, "What is a goroutine?") {
		t.Fatal("expected card on deck page")
	}

	resp, body = app.postForm(t, deckPath+"/cards", url.Values{"front": {"Only front"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Front and back are required.") {
		t.Error("expected card validation message")
	}
}

func TestDecks_Delete(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	d := app.backend.AddDeck("Old", domain.DeckStats{})

	resp, _ := app.postForm(t, "/decks/"+d.ID+"/delete", url.Values{})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/decks" {
		t.Fatalf("expected 303 to /decks, got %d", resp.StatusCode)
	}
	if app.backend.Calls("DELETE /api/decks/{id}") != 1 {
		t.Error("expected one delete call")
	}
}

func TestReview_LoadAndRate(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	d := app.backend.AddDeck("Go", domain.DeckStats{Due: 1})
	c := app.backend.AddDueCard(d.ID, "What does defer do?", "Runs at return")

	_, body := app.get(t, "/review?deck="+d.ID)
	if !strings.Contains(body, "/review/load?deck="+d.ID) {
		t.Fatalf("expected review page to load deck %s", d.ID)
	}

	_, body = app.datastar(t, http.MethodGet, "/review/load?deck="+d.ID, "")
	if !strings.Contains(body, "What does defer do?") {
		t.Fatalf("expected card front, got %s", body)
	}

	_, body = app.datastar(t, http.MethodPost, "/review/rate?card="+c.ID+"&rating=BAD", "{}")
	if !strings.Contains(body, "Choose WRONG, GOOD or EASY.") {
		t.Errorf("expected rating validation, got %s", body)
	}

	_, body = app.datastar(t, http.MethodPost, "/review/rate?card="+c.ID+"&rating=GOOD", "{}")
	if !strings.Contains(body, "Review complete!") {
		t.Errorf("expected completion summary, got %s", body)
	}
	if got := app.backend.LastBody("POST /api/reviews")["rating"]; got != "GOOD" {
		t.Errorf("expected GOOD rating on backend, got %v", got)
	}

	_, body = app.datastar(t, http.MethodPost, "/review/rate?card="+c.ID+"&rating=EASY", "{}")
	if !strings.Contains(body, "This card has already been reviewed.") {
		t.Errorf("expected repeat rating to be refused, got %s", body)
	}
	if n := app.backend.Calls("POST /api/reviews"); n != 1 {
		t.Errorf("expected one review call, got %d", n)
	}
}

func TestReview_EmptyQueueNotice(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, body := app.datastar(t, http.MethodGet, "/review/load", "")
	if !strings.Contains(body, "No cards are due for review right now.") {
		t.Errorf("expected empty-queue notice, got %s", body)
	}
}

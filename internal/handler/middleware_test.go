package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"session":"none"`) {
		t.Errorf("expected no session, got %s", body)
	}

	app.login(t)
	_, body = app.get(t, "/healthz")
	if !strings.Contains(body, `"session":"active"`) {
		t.Errorf("expected active session, got %s", body)
	}
}

func TestRequireSession_RedirectsPages(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/decks", "/reflections", "/history", "/profile", "/review"} {
		resp, _ := app.get(t, path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, resp.StatusCode)
			continue
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Errorf("%s: expected redirect to /login, got %q", path, loc)
		}
	}
}

func TestRequireSession_DatastarGetsScriptRedirect(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.datastar(t, http.MethodPost, "/pomodoro/start", "{}")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 event stream, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event stream, got %q", ct)
	}
	if !strings.Contains(body, "/login") {
		t.Errorf("expected redirect to /login in stream, got %s", body)
	}
	if app.backend.Calls("POST /api/pomodoro/start") != 0 {
		t.Error("expected no backend call without a session")
	}
}

func TestGuestOnly_RedirectsLoggedInUsers(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.get(t, "/login")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Errorf("expected 303 to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/login")
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if resp.Header.Get(h) == "" {
			t.Errorf("expected %s header", h)
		}
	}
}

func TestExpiredToken_RedirectsWithNotice(t *testing.T) {
	app := newTestApp(t)
	if err := app.state.SetToken(context.Background(), "revoked-token"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	resp, _ := app.get(t, "/decks")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login?expired=1" {
		t.Errorf("expected /login?expired=1, got %q", loc)
	}

	// The stored token is kept; only the user can end the session.
	if !app.state.LoggedIn(context.Background()) {
		t.Error("expected token to survive a rejected request")
	}

	resp, body := app.get(t, "/login?expired=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page despite stored token, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Your session has expired. Please log in again.") {
		t.Error("expected expired notice on login page")
	}
}

func TestLogout_ClearsSessionEvenWhenBackendFails(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.Fail("POST /api/auth/logout", http.StatusInternalServerError, "")

	resp, _ := app.postForm(t, "/logout", url.Values{})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if app.state.LoggedIn(context.Background()) {
		t.Error("expected session cleared")
	}
}

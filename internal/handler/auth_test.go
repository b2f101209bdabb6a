package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestRegister_LogsIn(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.postForm(t, "/register", url.Values{
		"name":             {"Ada"},
		"email":            {"ada@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if !app.backend.ValidToken(app.state.Token(context.Background())) {
		t.Error("expected the issued token to be stored")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/register", url.Values{
		"name":             {"Ada"},
		"email":            {"ada@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password124"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Passwords do not match.") {
		t.Error("expected mismatch message")
	}
	if !strings.Contains(body, `value="ada@example.com"`) {
		t.Error("expected email to be kept")
	}
	if app.backend.Calls("POST /api/auth/register") != 0 {
		t.Error("expected no backend call")
	}
}

func TestLogin_ShowsServerMessage(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser("ada@example.com", "password123", "Ada")

	resp, body := app.postForm(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid email or password.") {
		t.Error("expected the server's message")
	}
	if app.state.LoggedIn(context.Background()) {
		t.Error("expected no token after failed login")
	}

	resp, _ = app.postForm(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {"password123"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if !app.state.LoggedIn(context.Background()) {
		t.Error("expected token after login")
	}
}

func TestProfile_Update(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, body := app.get(t, "/profile")
	if !strings.Contains(body, `value="Ada"`) {
		t.Fatal("expected profile form with current name")
	}

	resp, body := app.postForm(t, "/profile", url.Values{"name": {"Ada L."}, "email": {"ada@example.com"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Profile updated.") || !strings.Contains(body, `value="Ada L."`) {
		t.Error("expected updated profile")
	}
}

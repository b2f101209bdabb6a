package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/apitest"
	"github.com/msomdec/pomodeck/internal/domain"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

func newTestClient(t *testing.T) (*api.Client, *apitest.Backend) {
	t.Helper()
	backend := apitest.NewBackend(t)
	token := backend.AddUser("ada@example.com", "password123", "Ada")
	return api.New(backend.URL(), staticToken(token)), backend
}

func TestClient_SendsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken("abc"))
	if _, err := c.CurrentPomodoro(context.Background()); err != nil {
		t.Fatalf("CurrentPomodoro: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if len(gotID) != 36 {
		t.Fatalf("expected uuid request id, got %q", gotID)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := api.New(srv.URL, staticToken(""))
	if _, err := c.ListDecks(context.Background()); err != nil {
		t.Fatalf("ListDecks: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusConflict, `{"message":"A pomodoro session is already active."}`, "A pomodoro session is already active."},
		{"missing message", http.StatusInternalServerError, `{}`, "Request failed with status 500."},
		{"non json", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := api.New(srv.URL, nil).StartPomodoro(context.Background())
			apiErr, ok := api.IsAPIError(err)
			if !ok {
				t.Fatalf("expected *api.Error, got %v", err)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.want {
				t.Fatalf("expected message %q, got %q", tt.want, apiErr.Message)
			}
			if apiErr.RequestID == "" {
				t.Fatal("expected request id on error")
			}
		})
	}
}

func TestClient_UnauthorizedMapsToSentinel(t *testing.T) {
	backend := apitest.NewBackend(t)
	c := api.New(backend.URL(), staticToken("stale"))

	_, err := c.Me(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.New(url, nil, api.WithTimeout(time.Second)).CurrentPomodoro(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if _, ok := api.IsAPIError(err); ok {
		t.Fatal("transport failure should not be an api error")
	}
}

func TestClient_LoginAndRegister(t *testing.T) {
	backend := apitest.NewBackend(t)
	c := api.New(backend.URL(), nil)
	ctx := context.Background()

	sess, msg, err := c.Register(ctx, api.RegisterInput{Email: "new@example.com", Password: "secret123", Name: "New"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess == nil || sess.Token == "" {
		t.Fatal("expected token from register")
	}
	if msg != "User registered." {
		t.Fatalf("unexpected register message %q", msg)
	}

	login, err := c.Login(ctx, api.LoginInput{Email: "new@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.Name != "New" {
		t.Fatalf("expected user New, got %q", login.User.Name)
	}
	if !backend.ValidToken(login.Token) {
		t.Fatal("expected login token to be accepted by backend")
	}

	_, err = c.Login(ctx, api.LoginInput{Email: "new@example.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}
}

func TestClient_RenewToken(t *testing.T) {
	c, backend := newTestClient(t)

	token, err := c.RenewToken(context.Background())
	if err != nil {
		t.Fatalf("RenewToken: %v", err)
	}
	if token == "" || !backend.ValidToken(token) {
		t.Fatalf("expected a fresh valid token, got %q", token)
	}
}

func TestClient_PomodoroLifecycle(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	backend.SetNow(func() time.Time { return now })

	cur, err := c.CurrentPomodoro(ctx)
	if err != nil {
		t.Fatalf("CurrentPomodoro: %v", err)
	}
	if cur != nil {
		t.Fatalf("expected no session, got %+v", cur)
	}

	started, err := c.StartPomodoro(ctx)
	if err != nil {
		t.Fatalf("StartPomodoro: %v", err)
	}
	if started.Status != domain.PomodoroActive {
		t.Fatalf("expected ACTIVE, got %s", started.Status)
	}
	if !started.ExpiresAt.Equal(now.Add(20 * time.Minute)) {
		t.Fatalf("unexpected expiresAt %v", started.ExpiresAt)
	}

	abandoned, err := c.AbandonPomodoro(ctx, "phone call")
	if err != nil {
		t.Fatalf("AbandonPomodoro: %v", err)
	}
	if abandoned.Status != domain.PomodoroAbandoned {
		t.Fatalf("expected ABANDONED, got %s", abandoned.Status)
	}
	if got := backend.LastBody("POST /api/pomodoro/abandon")["abandonmentReason"]; got != "phone call" {
		t.Fatalf("expected reason in body, got %v", got)
	}
}

func TestClient_ReviewCard(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()
	deck := backend.AddDeck("Go", domain.DeckStats{Due: 1})
	card := backend.AddDueCard(deck.ID, "chan", "typed conduit")

	due, err := c.DueForReview(ctx)
	if err != nil {
		t.Fatalf("DueForReview: %v", err)
	}
	if len(due) != 1 || due[0].ID != card.ID {
		t.Fatalf("expected one due card, got %+v", due)
	}

	if _, err := c.ReviewCard(ctx, card.ID, domain.RatingGood); err != nil {
		t.Fatalf("ReviewCard: %v", err)
	}
	body := backend.LastBody("POST /api/reviews")
	if body["cardId"] != card.ID || body["rating"] != "GOOD" {
		t.Fatalf("unexpected review body %v", body)
	}

	due, err = c.DueForReview(ctx)
	if err != nil {
		t.Fatalf("DueForReview: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected queue to drain, got %d", len(due))
	}
}

func TestClient_ReflectionCRUD(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	in := api.ReflectionInput{
		PomodoroID:        "pomodoro-1",
		Topic:             "Channels",
		WhatIThought:      "queues",
		WhatItActuallyIs:  "typed conduits",
		Summary:           "sync by communication",
		MandatoryQuestion: "what blocks?",
	}
	created, err := c.CreateReflection(ctx, in)
	if err != nil {
		t.Fatalf("CreateReflection: %v", err)
	}

	byPomodoro, err := c.GetReflectionByPomodoro(ctx, "pomodoro-1")
	if err != nil {
		t.Fatalf("GetReflectionByPomodoro: %v", err)
	}
	if byPomodoro.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, byPomodoro.ID)
	}

	in.Topic = "Select"
	updated, err := c.UpdateReflection(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateReflection: %v", err)
	}
	if updated.Topic != "Select" {
		t.Fatalf("expected updated topic, got %q", updated.Topic)
	}

	if err := c.DeleteReflection(ctx, created.ID); err != nil {
		t.Fatalf("DeleteReflection: %v", err)
	}
	_, err = c.GetReflection(ctx, created.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClient_BaseURLTrailingSlash(t *testing.T) {
	backend := apitest.NewBackend(t)
	token := backend.AddUser("a@example.com", "pw", "A")
	c := api.New(backend.URL()+"/", staticToken(token))

	if _, err := c.ListDecks(context.Background()); err != nil {
		t.Fatalf("ListDecks: %v", err)
	}
	if backend.Calls("GET /api/decks") != 1 {
		t.Fatal("expected request to reach /api/decks")
	}
	if !strings.HasPrefix(backend.LastAuthorization("GET /api/decks"), "Bearer ") {
		t.Fatal("expected bearer header")
	}
}

func TestClient_Questions(t *testing.T) {
	c, backend := newTestClient(t)
	ctx := context.Background()
	q := backend.AddQuestion("What surprised you?")

	list, err := c.ListQuestions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListQuestions: %v %+v", err, list)
	}
	got, err := c.GetQuestion(ctx, q.ID)
	if err != nil || got.Text != q.Text {
		t.Fatalf("GetQuestion: %v %+v", err, got)
	}
	if _, err := c.GetQuestion(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/apitest"
	"github.com/msomdec/pomodeck/internal/handler"
	"github.com/msomdec/pomodeck/internal/repository/sqlite"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/session"
)

type testApp struct {
	backend *apitest.Backend
	state   *session.State
	timer   *service.PomodoroTimer
	cards   *service.CardService
	server  *httptest.Server
}

func newTestState(t *testing.T) *session.State {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := db.State("test-secret")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	return session.New(store)
}

// newTestApp wires the full route table against a fake backend.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := apitest.NewBackend(t)
	state := newTestState(t)
	client := api.New(backend.URL(), state)

	app := &testApp{
		backend: backend,
		state:   state,
		timer:   service.NewPomodoroTimer(client, 0),
		cards:   service.NewCardService(client),
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(client, state, service.NewThrottle(1, 10))),
		Pomodoro:    handler.NewPomodoroHandler(app.timer, app.cards, state),
		Review:      handler.NewReviewHandler(service.NewReviewSession(client)),
		Decks:       handler.NewDeckHandler(service.NewDeckService(client), app.cards),
		Reflections: handler.NewReflectionHandler(service.NewReflectionService(client), service.NewQuestionService(client)),
		History:     handler.NewHistoryHandler(service.NewHistoryService(client)),
	}, state)
	app.server = httptest.NewServer(handler.Wrap(mux, nil))
	t.Cleanup(app.server.Close)
	return app
}

// login stores a valid token for a seeded user.
func (a *testApp) login(t *testing.T) {
	t.Helper()
	token := a.backend.AddUser("ada@example.com", "password123", "Ada")
	if err := a.state.SetToken(context.Background(), token); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirect().Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirect().PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

// datastar sends a request the way the browser runtime does.
func (a *testApp) datastar(t *testing.T, method, path, signals string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(signals))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Datastar-Request", "true")
	req.Header.Set("Content-Type", "application/json")
	resp, err := noRedirect().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

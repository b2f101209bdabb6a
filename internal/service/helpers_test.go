package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/apitest"
	"github.com/msomdec/pomodeck/internal/repository/sqlite"
	"github.com/msomdec/pomodeck/internal/session"
)

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

	store, err := db.State("")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	return session.New(store)
}

// newLoggedIn returns a fake backend, a logged-in session state, and a
// client that reads its token from that state.
func newLoggedIn(t *testing.T) (*apitest.Backend, *session.State, *api.Client) {
	t.Helper()
	backend := apitest.NewBackend(t)
	state := newTestState(t)
	token := backend.AddUser("ada@example.com", "password123", "Ada")
	if err := state.SetToken(context.Background(), token); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	return backend, state, api.New(backend.URL(), state)
}

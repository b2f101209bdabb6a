package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/repository/sqlite"
)

// Verify that *sqlite.StateRepository implements domain.StateStore at compile time.
var _ domain.StateStore = (*sqlite.StateRepository)(nil)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStateRepository_SetGetDelete(t *testing.T) {
	db := newTestDB(t)
	state, err := db.State("")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	ctx := context.Background()

	if _, err := state.Get(ctx, domain.TokenKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty store, got %v", err)
	}

	if err := state.Set(ctx, domain.TokenKey, "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := state.Set(ctx, domain.TokenKey, "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := state.Get(ctx, domain.TokenKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected second, got %q", got)
	}

	if err := state.Delete(ctx, domain.TokenKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := state.Delete(ctx, domain.TokenKey); err != nil {
		t.Fatalf("Delete of missing key should succeed: %v", err)
	}
	if _, err := state.Get(ctx, domain.TokenKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStateRepository_SealedAtRest(t *testing.T) {
	db := newTestDB(t)
	state, err := db.State("a-local-secret")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	ctx := context.Background()

	if err := state.Set(ctx, domain.TokenKey, "bearer-value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var raw string
	var sealed bool
	if err := db.SQLDB.QueryRowContext(ctx,
		"SELECT value, sealed FROM client_state WHERE key = ?", domain.TokenKey,
	).Scan(&raw, &sealed); err != nil {
		t.Fatalf("read raw row: %v", err)
	}
	if !sealed {
		t.Fatal("expected row to be marked sealed")
	}
	if raw == "bearer-value" {
		t.Fatal("expected value to be encrypted at rest")
	}

	got, err := state.Get(ctx, domain.TokenKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "bearer-value" {
		t.Fatalf("expected bearer-value, got %q", got)
	}

	other, err := db.State("a-different-secret")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if _, err := other.Get(ctx, domain.TokenKey); err == nil {
		t.Fatal("expected wrong secret to fail to open the value")
	}

	plain, err := db.State("")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if _, err := plain.Get(ctx, domain.TokenKey); err == nil {
		t.Fatal("expected sealed value to be unreadable without a secret")
	}
}

// Package session owns the client's authentication state: the persisted
// bearer token, the observable logged-in signal, and background renewal.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/msomdec/pomodeck/internal/domain"
)

// State is the explicit session-state object shared by handlers and
// services. The token lives in the StateStore and is re-read on every call,
// so a concurrent logout or renewal is picked up by the next request.
type State struct {
	store domain.StateStore

	// writeMu serializes token writes so SetTokenIf can compare and set.
	writeMu sync.Mutex

	mu   sync.Mutex
	subs map[int]chan bool
	next int
}

// New creates a State backed by store.
func New(store domain.StateStore) *State {
	return &State{store: store, subs: make(map[int]chan bool)}
}

// Token returns the stored bearer token, or "" when there is none.
// It implements api.TokenSource.
func (s *State) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx, domain.TokenKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("failed to read session token", "error", err)
		}
		return ""
	}
	return token
}

// LoggedIn reports whether a token is currently stored.
func (s *State) LoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetToken persists token and notifies subscribers.
func (s *State) SetToken(ctx context.Context, token string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.set(ctx, token)
}

// SetTokenIf replaces the stored token with fresh only if it still equals
// old. It reports whether the token was written.
func (s *State) SetTokenIf(ctx context.Context, old, fresh string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.Token(ctx) != old {
		return false, nil
	}
	if err := s.set(ctx, fresh); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the stored token and notifies subscribers.
func (s *State) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.clear(ctx)
}

func (s *State) set(ctx context.Context, token string) error {
	if token == "" {
		return s.clear(ctx)
	}
	if err := s.store.Set(ctx, domain.TokenKey, token); err != nil {
		return err
	}
	s.publish(true)
	return nil
}

func (s *State) clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, domain.TokenKey); err != nil {
		return err
	}
	s.publish(false)
	return nil
}

// Subscribe returns a channel that receives the logged-in value after each
// change, and a function that stops delivery. Slow readers only see the
// latest value.
func (s *State) Subscribe() (<-chan bool, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan bool, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *State) publish(loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- loggedIn
	}
}

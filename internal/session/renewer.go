package session

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRenewInterval is how often the renewer refreshes a present token.
const DefaultRenewInterval = 30 * time.Minute

// TokenRenewer exchanges the current token for a fresh one.
type TokenRenewer interface {
	RenewToken(ctx context.Context) (string, error)
}

// Renewer is the single owner of token refresh. Failures are logged and
// never clear the session; the next authenticated request reports them.
type Renewer struct {
	state    *State
	client   TokenRenewer
	interval time.Duration
	now      func() time.Time
}

// NewRenewer creates a Renewer. A non-positive interval uses the default.
func NewRenewer(state *State, client TokenRenewer, interval time.Duration) *Renewer {
	if interval <= 0 {
		interval = DefaultRenewInterval
	}
	return &Renewer{state: state, client: client, interval: interval, now: time.Now}
}

// Run renews once if a token is present, then on every tick until ctx ends.
// A token that expires before the next tick is renewed a minute ahead of
// its exp claim instead.
func (r *Renewer) Run(ctx context.Context) {
	r.RenewNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RenewNow(ctx)
			ticker.Reset(r.nextDelay(ctx))
		}
	}
}

// RenewNow performs one renewal if a token is stored. It reports whether a
// new token was written.
func (r *Renewer) RenewNow(ctx context.Context) bool {
	old := r.state.Token(ctx)
	if old == "" {
		return false
	}

	fresh, err := r.client.RenewToken(ctx)
	if err != nil {
		slog.Warn("failed to renew token", "error", err)
		return false
	}
	if fresh == "" {
		return false
	}

	// A logout or login that happened while the request was in flight wins.
	written, err := r.state.SetTokenIf(ctx, old, fresh)
	if err != nil {
		slog.Error("failed to store renewed token", "error", err)
		return false
	}
	if !written {
		slog.Debug("discarding renewed token after session change")
		return false
	}
	slog.Debug("token renewed")
	return true
}

func (r *Renewer) nextDelay(ctx context.Context) time.Duration {
	token := r.state.Token(ctx)
	if token == "" {
		return r.interval
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		return r.interval
	}
	if left := exp.Sub(r.now()); left < r.interval {
		return max(left-time.Minute, time.Minute)
	}
	return r.interval
}

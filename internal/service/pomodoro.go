package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// DefaultFocus is the length of a pomodoro shown while idle.
const DefaultFocus = 20 * time.Minute

// TimerView is a point-in-time rendering of the timer.
type TimerView struct {
	Session     *domain.PomodoroSession
	Running     bool
	Remaining   time.Duration
	Clock       string
	Progress    float64 // 0..1 of the focus interval elapsed
	CanComplete bool
	Busy        bool
}

// PomodoroTimer holds the client's copy of the latest pomodoro session.
// Remaining time is always derived from the server's expiresAt, never
// counted down locally. Mutations replace local state only with the
// server's response; a failed call leaves state untouched.
type PomodoroTimer struct {
	client *api.Client
	focus  time.Duration

	mu      sync.Mutex
	session *domain.PomodoroSession
	busy    bool
	issued  uint64    // generation of the latest request
	applied uint64    // generation of the response currently held
	expired time.Time // expiresAt already re-read at zero
}

// NewPomodoroTimer creates a timer. A non-positive focus uses DefaultFocus.
func NewPomodoroTimer(client *api.Client, focus time.Duration) *PomodoroTimer {
	if focus <= 0 {
		focus = DefaultFocus
	}
	return &PomodoroTimer{client: client, focus: focus}
}

// Focus returns the configured pomodoro length.
func (t *PomodoroTimer) Focus() time.Duration {
	return t.focus
}

// Refresh re-reads the latest session from the server. A response is
// dropped if a newer request has already been applied.
func (t *PomodoroTimer) Refresh(ctx context.Context) domain.Result[*domain.PomodoroSession] {
	t.mu.Lock()
	t.issued++
	gen := t.issued
	t.mu.Unlock()

	s, err := t.client.CurrentPomodoro(ctx)
	if err != nil {
		return toResult[*domain.PomodoroSession](nil, err, "Failed to load the current pomodoro.")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen > t.applied {
		t.session = s
		t.applied = gen
	} else {
		slog.Debug("dropping stale pomodoro response", "generation", gen, "applied", t.applied)
	}
	return domain.Ok(s)
}

// Start asks the server for a new ACTIVE session.
func (t *PomodoroTimer) Start(ctx context.Context) domain.Result[*domain.PomodoroSession] {
	return t.mutate(ctx, "Failed to start pomodoro.", t.client.StartPomodoro)
}

// Complete finishes the active session.
func (t *PomodoroTimer) Complete(ctx context.Context) domain.Result[*domain.PomodoroSession] {
	return t.mutate(ctx, "Failed to complete pomodoro.", t.client.CompletePomodoro)
}

// Reset restarts the active session's countdown.
func (t *PomodoroTimer) Reset(ctx context.Context) domain.Result[*domain.PomodoroSession] {
	return t.mutate(ctx, "Failed to reset pomodoro.", t.client.ResetPomodoro)
}

// Abandon gives up on the active session. An empty reason fails before
// any request is made.
func (t *PomodoroTimer) Abandon(ctx context.Context, reason string) domain.Result[*domain.PomodoroSession] {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fail[*domain.PomodoroSession](validation("Please tell us why you are giving up on this session."))
	}
	return t.mutate(ctx, "Failed to abandon pomodoro.", func(ctx context.Context) (*domain.PomodoroSession, error) {
		return t.client.AbandonPomodoro(ctx, reason)
	})
}

func (t *PomodoroTimer) mutate(ctx context.Context, fallback string, call func(context.Context) (*domain.PomodoroSession, error)) domain.Result[*domain.PomodoroSession] {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return fail[*domain.PomodoroSession](&domain.Failure{Kind: domain.KindValidation, Message: msgBusy})
	}
	t.busy = true
	t.issued++
	gen := t.issued
	t.mu.Unlock()

	s, err := call(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = false
	if err != nil {
		return toResult[*domain.PomodoroSession](nil, err, fallback)
	}
	t.session = s
	t.applied = max(t.applied, gen)
	return domain.Ok(s)
}

// Session returns a copy of the held session, or nil.
func (t *PomodoroTimer) Session() *domain.PomodoroSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil
	}
	s := *t.session
	return &s
}

// Remaining is max(0, expiresAt - now) for an active session, and the full
// focus length otherwise.
func (t *PomodoroTimer) Remaining(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining(now)
}

func (t *PomodoroTimer) remaining(now time.Time) time.Duration {
	if !t.session.IsActive() {
		return t.focus
	}
	return t.session.Remaining(now)
}

// View renders the timer at now.
func (t *PomodoroTimer) View(now time.Time) TimerView {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining := t.remaining(now)
	v := TimerView{
		Running:   t.session.IsActive(),
		Remaining: remaining,
		Clock:     FormatClock(remaining),
		Busy:      t.busy,
	}
	if t.session != nil {
		s := *t.session
		v.Session = &s
	}
	if v.Running {
		v.Progress = min(max(float64(t.focus-remaining)/float64(t.focus), 0), 1)
		v.CanComplete = remaining == 0
	}
	return v
}

// ReachedZero reports true once per countdown, the first time it is
// observed at zero. Callers re-read the session when it fires.
func (t *PomodoroTimer) ReachedZero(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.session.IsActive() || t.session.Remaining(now) > 0 || t.expired.Equal(t.session.ExpiresAt) {
		return false
	}
	t.expired = t.session.ExpiresAt
	return true
}

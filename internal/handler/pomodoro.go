package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/session"
	"github.com/msomdec/pomodeck/internal/view"
)

// PomodoroHandler serves the dashboard, the live timer stream, and the
// timer actions.
type PomodoroHandler struct {
	timer *service.PomodoroTimer
	cards *service.CardService
	state *session.State
	now   func() time.Time
	tick  time.Duration
}

// NewPomodoroHandler creates a new PomodoroHandler.
func NewPomodoroHandler(timer *service.PomodoroTimer, cards *service.CardService, state *session.State) *PomodoroHandler {
	return &PomodoroHandler{timer: timer, cards: cards, state: state, now: time.Now, tick: time.Second}
}

// HandleDashboard renders the timer and card buckets.
func (h *PomodoroHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		render(w, r, http.StatusNotFound, view.ErrorPage("Not found", "This page does not exist.", true))
		return
	}

	cur := h.timer.Refresh(r.Context())
	if authFailed(w, r, cur.Err) {
		return
	}
	buckets := h.cards.Buckets(r.Context())
	if authFailed(w, r, buckets.Err) {
		return
	}
	render(w, r, http.StatusOK, view.DashboardPage(h.timer.View(h.now()), cur.Message(), buckets.Data, buckets.Message()))
}

// timerState is what decides whether the whole timer card must be
// re-rendered rather than just the clock.
type timerState struct {
	id          string
	status      domain.PomodoroStatus
	expiresAt   time.Time
	running     bool
	canComplete bool
	busy        bool
}

func stateOf(v service.TimerView) timerState {
	st := timerState{running: v.Running, canComplete: v.CanComplete, busy: v.Busy}
	if v.Session != nil {
		st.id, st.status, st.expiresAt = v.Session.ID, v.Session.Status, v.Session.ExpiresAt
	}
	return st
}

// HandleStream keeps the timer card live. Every tick it re-derives the
// countdown from expiresAt and patches the clock; when the session changes
// it patches the whole card. At zero it re-reads the session once. A
// logout elsewhere ends the stream with a redirect to the login page.
func (h *PomodoroHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auth, unsubscribe := h.state.Subscribe()
	defer unsubscribe()

	msg := ""
	if res := h.timer.Refresh(ctx); !res.OK() {
		if authFailed(w, r, res.Err) {
			return
		}
		msg = res.Message()
	}

	sse := datastar.NewSSE(w, r)
	v := h.timer.View(h.now())
	last := stateOf(v)
	if err := sse.PatchElementTempl(view.TimerFragment(v, msg)); err != nil {
		return
	}

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case loggedIn := <-auth:
			if !loggedIn {
				sse.Redirect("/login")
				return
			}
			continue
		case <-ticker.C:
		}

		now := h.now()
		if h.timer.ReachedZero(now) {
			if res := h.timer.Refresh(ctx); !res.OK() {
				slog.Warn("failed to re-read pomodoro at zero", "error", res.Err)
			}
		}

		v := h.timer.View(now)
		var err error
		if st := stateOf(v); st != last {
			last = st
			err = sse.PatchElementTempl(view.TimerFragment(v, ""))
		} else if v.Running {
			err = sse.PatchElementTempl(view.TimerClock(v))
		}
		if err != nil {
			return
		}
	}
}

// HandleStart starts a new pomodoro.
func (h *PomodoroHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.timer.Start(r.Context()))
}

// HandleComplete completes the active pomodoro.
func (h *PomodoroHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.timer.Complete(r.Context()))
}

// HandleReset restarts the active pomodoro's countdown.
func (h *PomodoroHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.timer.Reset(r.Context()))
}

// HandleAbandon abandons the active pomodoro with the reason signal.
func (h *PomodoroHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Reason string `json:"reason"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	res := h.timer.Abandon(r.Context(), signals.Reason)
	if res.OK() {
		signals.Reason = ""
		sse := datastar.NewSSE(w, r)
		sse.MarshalAndPatchSignals(signals)
		sse.PatchElementTempl(view.TimerFragment(h.timer.View(h.now()), ""))
		return
	}
	h.respond(w, r, res)
}

// respond patches the timer card with the outcome. On failure the card
// still shows the unchanged local state plus the message.
func (h *PomodoroHandler) respond(w http.ResponseWriter, r *http.Request, res domain.Result[*domain.PomodoroSession]) {
	if authFailed(w, r, res.Err) {
		return
	}
	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.TimerFragment(h.timer.View(h.now()), res.Message()))
}

package handler

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/msomdec/pomodeck/internal/session"
)

// Handlers groups every page handler RegisterRoutes mounts.
type Handlers struct {
	Auth        *AuthHandler
	Pomodoro    *PomodoroHandler
	Review      *ReviewHandler
	Decks       *DeckHandler
	Reflections *ReflectionHandler
	History     *HistoryHandler
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers, state *session.State) {
	guest := func(fn http.HandlerFunc) http.Handler { return GuestOnly(state, fn) }
	auth := func(fn http.HandlerFunc) http.Handler { return RequireSession(state, fn) }

	mux.HandleFunc("GET /healthz", HandleHealthz(state))

	// Auth
	mux.Handle("GET /login", guest(h.Auth.HandleLoginPage))
	mux.HandleFunc("POST /login", h.Auth.HandleLogin)
	mux.Handle("GET /register", guest(h.Auth.HandleRegisterPage))
	mux.HandleFunc("POST /register", h.Auth.HandleRegister)
	mux.HandleFunc("POST /logout", h.Auth.HandleLogout)
	mux.Handle("GET /profile", auth(h.Auth.HandleProfile))
	mux.Handle("POST /profile", auth(h.Auth.HandleUpdateProfile))

	// Pomodoro
	mux.Handle("GET /", auth(h.Pomodoro.HandleDashboard))
	mux.Handle("GET /pomodoro/stream", auth(h.Pomodoro.HandleStream))
	mux.Handle("POST /pomodoro/start", auth(h.Pomodoro.HandleStart))
	mux.Handle("POST /pomodoro/complete", auth(h.Pomodoro.HandleComplete))
	mux.Handle("POST /pomodoro/abandon", auth(h.Pomodoro.HandleAbandon))
	mux.Handle("POST /pomodoro/reset", auth(h.Pomodoro.HandleReset))

	// Review
	mux.Handle("GET /review", auth(h.Review.HandlePage))
	mux.Handle("GET /review/load", auth(h.Review.HandleLoad))
	mux.Handle("POST /review/rate", auth(h.Review.HandleRate))

	// Decks and cards
	mux.Handle("GET /decks", auth(h.Decks.HandleList))
	mux.Handle("POST /decks", auth(h.Decks.HandleCreate))
	mux.Handle("GET /decks/{id}", auth(h.Decks.HandleView))
	mux.Handle("POST /decks/{id}", auth(h.Decks.HandleUpdate))
	mux.Handle("POST /decks/{id}/delete", auth(h.Decks.HandleDelete))
	mux.Handle("POST /decks/{id}/cards", auth(h.Decks.HandleCreateCard))
	mux.Handle("POST /decks/{id}/cards/{cardID}", auth(h.Decks.HandleUpdateCard))
	mux.Handle("POST /decks/{id}/cards/{cardID}/delete", auth(h.Decks.HandleDeleteCard))

	// Reflections
	mux.Handle("GET /reflections", auth(h.Reflections.HandleList))
	mux.Handle("GET /reflections/new", auth(h.Reflections.HandleNew))
	mux.Handle("POST /reflections", auth(h.Reflections.HandleCreate))
	mux.Handle("GET /reflections/question", auth(h.Reflections.HandleQuestion))
	mux.Handle("GET /pomodoro/{id}/reflection", auth(h.Reflections.HandleForPomodoro))
	mux.Handle("GET /reflections/{id}", auth(h.Reflections.HandleView))
	mux.Handle("GET /reflections/{id}/edit", auth(h.Reflections.HandleEdit))
	mux.Handle("POST /reflections/{id}", auth(h.Reflections.HandleUpdate))
	mux.Handle("POST /reflections/{id}/delete", auth(h.Reflections.HandleDelete))

	mux.Handle("GET /history", auth(h.History.HandleHistory))
}

// Wrap applies the middleware shared by every route. allowedOrigins lists
// extra origins permitted to call the app cross-site; empty means same
// origin only.
func Wrap(mux http.Handler, allowedOrigins []string) http.Handler {
	var next http.Handler = SecurityHeaders(mux)
	if len(allowedOrigins) > 0 {
		next = cors.New(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "Datastar-Request", "Accept"},
			AllowCredentials: true,
			MaxAge:           86400,
		}).Handler(next)
	}
	return LogRequests(next)
}

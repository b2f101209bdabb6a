package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/msomdec/pomodeck/internal/session"
)

type healthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// HandleHealthz reports liveness and whether a session token is stored.
func HandleHealthz(state *session.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Session: "none"}
		if state.LoggedIn(r.Context()) {
			resp.Session = "active"
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("write health response", "error", err)
		}
	}
}

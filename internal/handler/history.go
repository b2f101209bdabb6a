package handler

import (
	"net/http"

	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

// HistoryHandler serves the session history page.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// HandleHistory renders past sessions with today's and lifetime stats.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.HistoryPage(h.history.Overview(r.Context())))
}

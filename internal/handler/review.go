package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

// ReviewHandler drives the flashcard review session.
type ReviewHandler struct {
	review *service.ReviewSession
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(review *service.ReviewSession) *ReviewHandler {
	return &ReviewHandler{review: review}
}

// HandlePage renders the review shell. The queue is loaded by the page
// itself so that every visit starts a fresh session.
func (h *ReviewHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.ReviewPage(r.URL.Query().Get("deck")))
}

// HandleLoad fetches the due cards and patches the first one in.
func (h *ReviewHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	res := h.review.Load(r.Context(), r.URL.Query().Get("deck"))
	h.respond(w, r, res)
}

// HandleRate records a rating for the card on screen.
func (h *ReviewHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res := h.review.Rate(r.Context(), q.Get("card"), domain.ReviewRating(q.Get("rating")))
	h.respond(w, r, res)
}

func (h *ReviewHandler) respond(w http.ResponseWriter, r *http.Request, res domain.Result[service.ReviewView]) {
	if authFailed(w, r, res.Err) {
		return
	}
	v := res.Data
	if !res.OK() {
		v = h.review.View()
	}
	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.ReviewFragment(v, res.Message()))
}

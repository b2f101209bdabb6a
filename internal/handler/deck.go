package handler

import (
	"net/http"
	"net/url"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

// DeckHandler serves deck and card management.
type DeckHandler struct {
	decks *service.DeckService
	cards *service.CardService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks *service.DeckService, cards *service.CardService) *DeckHandler {
	return &DeckHandler{decks: decks, cards: cards}
}

// HandleList renders all decks with their bucket counts.
func (h *DeckHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

// HandleCreate processes the new deck form.
func (h *DeckHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := h.decks.Create(r.Context(), r.FormValue("name"), r.FormValue("description"))
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		h.renderList(w, r, formStatus(res.Err), res.Message())
		return
	}
	http.Redirect(w, r, deckURL(res.Data.ID), http.StatusSeeOther)
}

// HandleView renders one deck with its cards.
func (h *DeckHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	h.renderDeck(w, r, r.PathValue("id"), http.StatusOK, "")
}

// HandleUpdate processes the deck edit form.
func (h *DeckHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := h.decks.Update(r.Context(), id, r.FormValue("name"), r.FormValue("description"))
	h.afterDeckChange(w, r, id, res.Err)
}

// HandleDelete deletes a deck and returns to the list.
func (h *DeckHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := h.decks.Delete(r.Context(), r.PathValue("id"))
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		h.renderList(w, r, formStatus(res.Err), res.Message())
		return
	}
	http.Redirect(w, r, "/decks", http.StatusSeeOther)
}

// HandleCreateCard adds a card to the deck.
func (h *DeckHandler) HandleCreateCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := h.cards.Create(r.Context(), id, r.FormValue("front"), r.FormValue("back"))
	h.afterDeckChange(w, r, id, res.Err)
}

// HandleUpdateCard edits a card.
func (h *DeckHandler) HandleUpdateCard(w http.ResponseWriter, r *http.Request) {
	res := h.cards.Update(r.Context(), r.PathValue("cardID"), r.FormValue("front"), r.FormValue("back"))
	h.afterDeckChange(w, r, r.PathValue("id"), res.Err)
}

// HandleDeleteCard removes a card.
func (h *DeckHandler) HandleDeleteCard(w http.ResponseWriter, r *http.Request) {
	res := h.cards.Delete(r.Context(), r.PathValue("cardID"))
	h.afterDeckChange(w, r, r.PathValue("id"), res.Err)
}

func (h *DeckHandler) afterDeckChange(w http.ResponseWriter, r *http.Request, id string, f *domain.Failure) {
	if authFailed(w, r, f) {
		return
	}
	if f != nil {
		h.renderDeck(w, r, id, formStatus(f), f.Message)
		return
	}
	http.Redirect(w, r, deckURL(id), http.StatusSeeOther)
}

func (h *DeckHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	res := h.decks.WithStats(r.Context())
	if authFailed(w, r, res.Err) {
		return
	}
	if errMsg == "" {
		errMsg = res.Message()
		if status == http.StatusOK {
			status = statusFor(res.Err)
		}
	}
	render(w, r, status, view.DecksPage(res.Data, errMsg))
}

func (h *DeckHandler) renderDeck(w http.ResponseWriter, r *http.Request, id string, status int, errMsg string) {
	ctx := r.Context()
	deck := h.decks.Get(ctx, id)
	if !deck.OK() || deck.Data == nil {
		renderError(w, r, "Deck not found", orNotFound(deck.Err, "Deck not found."))
		return
	}

	var stats domain.DeckStats
	if st := h.decks.Stats(ctx, id); st.OK() && st.Data != nil {
		stats = *st.Data
	}
	cards := h.cards.ListByDeck(ctx, id)
	if authFailed(w, r, cards.Err) {
		return
	}
	if errMsg == "" {
		errMsg = cards.Message()
	}
	render(w, r, status, view.DeckPage(deck.Data, stats, cards.Data, errMsg))
}

func deckURL(id string) string {
	return "/decks/" + url.PathEscape(id)
}

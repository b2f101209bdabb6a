package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
)

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(route string, public bool, h func(w http.ResponseWriter, r *http.Request, body map[string]any)) {
		mux.HandleFunc(route, b.wrap(route, public, h))
	}

	// Auth
	handle("POST /api/auth/register", true, b.register)
	handle("POST /api/auth/login", true, b.login)
	handle("POST /api/auth/logout", false, b.logout)
	handle("GET /api/auth/me", false, b.me)
	handle("PUT /api/auth/me", false, b.updateMe)
	handle("POST /api/auth/renew-token", false, b.renew)

	// Pomodoro
	handle("POST /api/pomodoro/start", false, b.start)
	handle("GET /api/pomodoro/current", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, b.current)
	})
	handle("POST /api/pomodoro/complete", false, b.complete)
	handle("POST /api/pomodoro/abandon", false, b.abandon)
	handle("POST /api/pomodoro/reset", false, b.reset)

	// Decks
	handle("GET /api/decks", false, b.listDecks)
	handle("POST /api/decks", false, b.createDeck)
	handle("GET /api/decks/{id}", false, b.getDeck)
	handle("PUT /api/decks/{id}", false, b.updateDeck)
	handle("DELETE /api/decks/{id}", false, b.deleteDeck)

	// Cards
	handle("POST /api/cards", false, b.createCard)
	handle("GET /api/cards/{id}", false, b.getCard)
	handle("PUT /api/cards/{id}", false, b.updateCard)
	handle("DELETE /api/cards/{id}", false, b.deleteCard)
	handle("GET /api/cards/deck/{id}", false, b.cardsByDeck)
	handle("GET /api/cards/stats/deck/{id}", false, b.deckStats)
	handle("GET /api/cards/stats/decks", false, b.decksWithStats)
	handle("GET /api/cards/stats/due", false, b.dueCards)
	handle("GET /api/cards/stats/new", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, []domain.Card{})
	})
	handle("GET /api/cards/stats/learning", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, []domain.Card{})
	})

	// Reviews
	handle("GET /api/reviews/due", false, b.dueCards)
	handle("POST /api/reviews", false, b.review)

	// Reflections
	handle("POST /api/reflections", false, b.createReflection)
	handle("GET /api/reflections/user/all", false, b.listReflections)
	handle("GET /api/reflections/pomodoro/{id}", false, b.reflectionByPomodoro)
	handle("GET /api/reflections/{id}", false, b.getReflection)
	handle("PUT /api/reflections/{id}", false, b.updateReflection)
	handle("DELETE /api/reflections/{id}", false, b.deleteReflection)

	// Questions
	handle("GET /api/questions/random", false, b.randomQuestion)
	handle("GET /api/questions", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, b.questions)
	})

	handle("GET /api/questions/{id}", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		for _, q := range b.questions {
			if q.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, q)
				return
			}
		}
		writeMessage(w, http.StatusNotFound, "Question not found.")
	})

	// History
	handle("GET /api/history", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, b.history)
	})
	handle("GET /api/history/today", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, b.today)
	})
	handle("GET /api/history/lifetime", false, func(w http.ResponseWriter, r *http.Request, _ map[string]any) {
		writeJSON(w, http.StatusOK, b.lifetime)
	})

	return mux
}

func (b *Backend) authData(acc *account) map[string]any {
	return map[string]any{"token": b.issueToken(acc.user.ID), "user": acc.user}
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request, body map[string]any) {
	email := str(body, "email")
	if email == "" || str(body, "password") == "" || str(body, "name") == "" {
		writeMessage(w, http.StatusBadRequest, "Email, password and name are required.")
		return
	}
	if _, exists := b.accounts[email]; exists {
		writeMessage(w, http.StatusConflict, "Email already registered.")
		return
	}
	acc := &account{password: str(body, "password"), user: domain.User{ID: b.nextID("user"), Email: email, Name: str(body, "name")}}
	b.accounts[email] = acc
	writeJSON(w, http.StatusCreated, map[string]any{"status": 201, "message": "User registered.", "data": b.authData(acc)})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request, body map[string]any) {
	acc, ok := b.accounts[str(body, "email")]
	if !ok || acc.password != str(body, "password") {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": b.authData(acc)})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	delete(b.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	writeJSON(w, http.StatusOK, map[string]any{"status": 200})
}

func (b *Backend) userFor(r *http.Request) *account {
	id := b.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	for _, acc := range b.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	acc := b.userFor(r)
	if acc == nil {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": acc.user})
}

func (b *Backend) updateMe(w http.ResponseWriter, r *http.Request, body map[string]any) {
	acc := b.userFor(r)
	if acc == nil {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	if name := str(body, "name"); name != "" {
		acc.user.Name = name
	}
	if email := str(body, "email"); email != "" {
		acc.user.Email = email
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": acc.user})
}

func (b *Backend) renew(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	old := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	userID := b.tokens[old]
	delete(b.tokens, old)
	writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]string{"token": b.issueToken(userID)}})
}

func (b *Backend) start(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	if b.current != nil && b.current.Status == domain.PomodoroActive {
		writeMessage(w, http.StatusConflict, "A pomodoro session is already active.")
		return
	}
	now := b.now().UTC()
	b.current = &domain.PomodoroSession{
		ID:        b.nextID("pomodoro"),
		UserID:    "user-1",
		Status:    domain.PomodoroActive,
		StartedAt: now,
		Duration:  int(b.focus.Minutes()),
		ExpiresAt: now.Add(b.focus),
	}
	writeJSON(w, http.StatusCreated, b.current)
}

func (b *Backend) finish(w http.ResponseWriter, status domain.PomodoroStatus, reason *string) {
	if b.current == nil || b.current.Status != domain.PomodoroActive {
		writeMessage(w, http.StatusNotFound, "No active pomodoro session.")
		return
	}
	now := b.now().UTC()
	b.current.Status = status
	b.current.EndedAt = &now
	b.current.AbandonmentReason = reason
	writeJSON(w, http.StatusOK, b.current)
}

func (b *Backend) complete(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	b.finish(w, domain.PomodoroCompleted, nil)
}

func (b *Backend) abandon(w http.ResponseWriter, r *http.Request, body map[string]any) {
	reason := str(body, "abandonmentReason")
	if strings.TrimSpace(reason) == "" {
		writeMessage(w, http.StatusBadRequest, "Abandonment reason is required.")
		return
	}
	b.finish(w, domain.PomodoroAbandoned, &reason)
}

func (b *Backend) reset(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	if b.current == nil || b.current.Status != domain.PomodoroActive {
		writeMessage(w, http.StatusNotFound, "No active pomodoro session.")
		return
	}
	now := b.now().UTC()
	b.current.StartedAt = now
	b.current.ExpiresAt = now.Add(b.focus)
	writeJSON(w, http.StatusOK, b.current)
}

func (b *Backend) listDecks(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	decks := make([]domain.Deck, 0, len(b.deckOrder))
	for _, id := range b.deckOrder {
		decks = append(decks, *b.decks[id])
	}
	writeJSON(w, http.StatusOK, decks)
}

func (b *Backend) createDeck(w http.ResponseWriter, r *http.Request, body map[string]any) {
	name := str(body, "name")
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "Deck name is required.")
		return
	}
	now := b.now().UTC()
	d := &domain.Deck{ID: b.nextID("deck"), UserID: "user-1", Name: name, CreatedAt: now, UpdatedAt: now}
	if desc, ok := body["description"].(string); ok {
		d.Description = &desc
	}
	b.decks[d.ID] = d
	b.deckOrder = append(b.deckOrder, d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (b *Backend) getDeck(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	d, ok := b.decks[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Deck not found.")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) updateDeck(w http.ResponseWriter, r *http.Request, body map[string]any) {
	d, ok := b.decks[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Deck not found.")
		return
	}
	if name := str(body, "name"); name != "" {
		d.Name = name
	}
	if desc, ok := body["description"].(string); ok {
		d.Description = &desc
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) deleteDeck(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	id := r.PathValue("id")
	d, ok := b.decks[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Deck not found.")
		return
	}
	delete(b.decks, id)
	for i, v := range b.deckOrder {
		if v == id {
			b.deckOrder = append(b.deckOrder[:i], b.deckOrder[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, d)
}

func (b *Backend) createCard(w http.ResponseWriter, r *http.Request, body map[string]any) {
	deckID := str(body, "deckId")
	if _, ok := b.decks[deckID]; !ok {
		writeMessage(w, http.StatusNotFound, "Deck not found.")
		return
	}
	if str(body, "front") == "" || str(body, "back") == "" {
		writeMessage(w, http.StatusBadRequest, "Front and back are required.")
		return
	}
	c := b.addCard(deckID, str(body, "front"), str(body, "back"))
	writeJSON(w, http.StatusCreated, c)
}

func (b *Backend) getCard(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	c, ok := b.cards[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Card not found.")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) updateCard(w http.ResponseWriter, r *http.Request, body map[string]any) {
	c, ok := b.cards[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Card not found.")
		return
	}
	if front := str(body, "front"); front != "" {
		c.Front = front
	}
	if back := str(body, "back"); back != "" {
		c.Back = back
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) deleteCard(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	id := r.PathValue("id")
	c, ok := b.cards[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Card not found.")
		return
	}
	delete(b.cards, id)
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) cardsByDeck(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	deckID := r.PathValue("id")
	cards := []domain.Card{}
	for _, id := range b.cardOrder {
		if c, ok := b.cards[id]; ok && c.DeckID == deckID {
			cards = append(cards, *c)
		}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (b *Backend) deckStats(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	id := r.PathValue("id")
	if _, ok := b.decks[id]; !ok {
		writeMessage(w, http.StatusNotFound, "Deck not found.")
		return
	}
	writeJSON(w, http.StatusOK, b.stats[id])
}

func (b *Backend) decksWithStats(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	out := make([]domain.DeckWithStats, 0, len(b.deckOrder))
	for _, id := range b.deckOrder {
		out = append(out, domain.DeckWithStats{Deck: *b.decks[id], Stats: b.stats[id]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) dueCards(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	cards := []domain.Card{}
	for _, id := range b.due {
		if c, ok := b.cards[id]; ok {
			cards = append(cards, *c)
		}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (b *Backend) review(w http.ResponseWriter, r *http.Request, body map[string]any) {
	c, ok := b.cards[str(body, "cardId")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Card not found.")
		return
	}
	if !domain.ReviewRating(str(body, "rating")).Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid rating.")
		return
	}
	c.NextReviewAt = b.now().UTC().Add(24 * time.Hour)
	for i, id := range b.due {
		if id == c.ID {
			b.due = append(b.due[:i], b.due[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, c)
}

func (b *Backend) createReflection(w http.ResponseWriter, r *http.Request, body map[string]any) {
	pomodoroID := str(body, "pomodoroId")
	if pomodoroID == "" {
		writeMessage(w, http.StatusBadRequest, "pomodoroId is required.")
		return
	}
	now := b.now().UTC()
	refl := &domain.Reflection{
		ID:                b.nextID("reflection"),
		PomodoroID:        pomodoroID,
		UserID:            "user-1",
		Topic:             str(body, "topic"),
		WhatIThought:      str(body, "whatIThought"),
		WhatItActuallyIs:  str(body, "whatItActuallyIs"),
		Summary:           str(body, "summary"),
		MandatoryQuestion: str(body, "mandatoryQuestion"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if q, ok := body["optionalQuestion"].(string); ok {
		refl.OptionalQuestion = &q
	}
	b.reflections[refl.ID] = refl
	b.reflOrder = append(b.reflOrder, refl.ID)
	writeJSON(w, http.StatusCreated, refl)
}

func (b *Backend) listReflections(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	out := []domain.Reflection{}
	for _, id := range b.reflOrder {
		if refl, ok := b.reflections[id]; ok {
			out = append(out, *refl)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) reflectionByPomodoro(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	for _, refl := range b.reflections {
		if refl.PomodoroID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, refl)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Reflection not found.")
}

func (b *Backend) getReflection(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	refl, ok := b.reflections[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Reflection not found.")
		return
	}
	writeJSON(w, http.StatusOK, refl)
}

func (b *Backend) updateReflection(w http.ResponseWriter, r *http.Request, body map[string]any) {
	refl, ok := b.reflections[r.PathValue("id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Reflection not found.")
		return
	}
	refl.Topic = str(body, "topic")
	refl.WhatIThought = str(body, "whatIThought")
	refl.WhatItActuallyIs = str(body, "whatItActuallyIs")
	refl.Summary = str(body, "summary")
	refl.MandatoryQuestion = str(body, "mandatoryQuestion")
	refl.OptionalQuestion = nil
	if q, ok := body["optionalQuestion"].(string); ok {
		refl.OptionalQuestion = &q
	}
	refl.UpdatedAt = b.now().UTC()
	writeJSON(w, http.StatusOK, refl)
}

func (b *Backend) deleteReflection(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	id := r.PathValue("id")
	if _, ok := b.reflections[id]; !ok {
		writeMessage(w, http.StatusNotFound, "Reflection not found.")
		return
	}
	delete(b.reflections, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) randomQuestion(w http.ResponseWriter, r *http.Request, _ map[string]any) {
	if len(b.questions) == 0 {
		writeMessage(w, http.StatusNotFound, "No questions available.")
		return
	}
	q := b.questions[b.nextQuestion%len(b.questions)]
	b.nextQuestion++
	writeJSON(w, http.StatusOK, q)
}

// Package apitest provides an in-memory stand-in for the pomodeck REST
// backend, for tests of the client, services, and handlers.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/pomodeck/internal/domain"
)

const signingKey = "apitest-signing-key"

type account struct {
	password string
	user     domain.User
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
}

type failure struct {
	status  int
	message string
	once    bool
}

// Backend is a fake REST backend. All fields are guarded by mu; tests use
// the exported helpers to seed data and inject failures.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	now         func() time.Time
	focus       time.Duration
	seq         int
	accounts    map[string]*account
	tokens      map[string]string // token -> user id
	current     *domain.PomodoroSession
	decks       map[string]*domain.Deck
	deckOrder   []string
	cards       map[string]*domain.Card
	cardOrder   []string
	stats       map[string]domain.DeckStats
	due         []string
	reflections map[string]*domain.Reflection
	reflOrder   []string
	questions   []domain.Question
	history     []domain.HistoryEntry
	today       domain.TodayStats
	lifetime    domain.LifetimeStats
	failures    map[string]*failure
	calls       map[string]int
	lastBodies  map[string]map[string]any
	lastAuth    map[string]string
	holds       map[string]*hold

	// questions are handed out round-robin
	nextQuestion int
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		now:         time.Now,
		focus:       20 * time.Minute,
		accounts:    make(map[string]*account),
		tokens:      make(map[string]string),
		decks:       make(map[string]*domain.Deck),
		cards:       make(map[string]*domain.Card),
		stats:       make(map[string]domain.DeckStats),
		reflections: make(map[string]*domain.Reflection),
		failures:    make(map[string]*failure),
		calls:       make(map[string]int),
		lastBodies:  make(map[string]map[string]any),
		lastAuth:    make(map[string]string),
		holds:       make(map[string]*hold),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string { return b.Server.URL }

// SetNow overrides the backend clock used for expiresAt.
func (b *Backend) SetNow(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// SetFocus overrides the pomodoro length handed out by /start.
func (b *Backend) SetFocus(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focus = d
}

// Fail makes every request to "METHOD /path" answer status with message.
// An empty message produces a body without the message field.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = &failure{status: status, message: message}
}

// FailOnce is like Fail but only affects the next matching request.
func (b *Backend) FailOnce(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = &failure{status: status, message: message, once: true}
}

// Recover clears an injected failure.
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Calls returns how many requests reached "METHOD /path".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// LastBody returns the decoded JSON body of the latest request to route.
func (b *Backend) LastBody(route string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastBodies[route]
}

// LastAuthorization returns the Authorization header of the latest request to route.
func (b *Backend) LastAuthorization(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth[route]
}

// AddUser registers an account directly and returns a valid token for it.
func (b *Backend) AddUser(email, password, name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := &account{password: password, user: domain.User{ID: b.nextID("user"), Email: email, Name: name}}
	b.accounts[email] = acc
	return b.issueToken(acc.user.ID)
}

// ValidToken reports whether token is currently accepted.
func (b *Backend) ValidToken(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.tokens[token]
	return ok
}

// SetCurrent replaces the user's latest pomodoro session.
func (b *Backend) SetCurrent(s *domain.PomodoroSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = s
}

// Current returns a copy of the latest pomodoro session, or nil.
func (b *Backend) Current() *domain.PomodoroSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	s := *b.current
	return &s
}

// AddDeck seeds a deck with the given bucket counts.
func (b *Backend) AddDeck(name string, stats domain.DeckStats) domain.Deck {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now().UTC()
	d := &domain.Deck{ID: b.nextID("deck"), UserID: "user-1", Name: name, CreatedAt: now, UpdatedAt: now}
	b.decks[d.ID] = d
	b.deckOrder = append(b.deckOrder, d.ID)
	b.stats[d.ID] = stats
	return *d
}

// AddDueCard seeds a card in deckID that is due for review.
func (b *Backend) AddDueCard(deckID, front, back string) domain.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.addCard(deckID, front, back)
	b.due = append(b.due, c.ID)
	return *c
}

// AddQuestion seeds the random-question pool.
func (b *Backend) AddQuestion(text string) domain.Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := domain.Question{ID: b.nextID("question"), Text: text, IsActive: true}
	b.questions = append(b.questions, q)
	return q
}

// AddReflection seeds a stored reflection.
func (b *Backend) AddReflection(r domain.Reflection) domain.Reflection {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r.ID == "" {
		r.ID = b.nextID("reflection")
	}
	b.reflections[r.ID] = &r
	b.reflOrder = append(b.reflOrder, r.ID)
	return r
}

// Reflection returns a stored reflection by id.
func (b *Backend) Reflection(id string) (domain.Reflection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.reflections[id]
	if !ok {
		return domain.Reflection{}, false
	}
	return *r, true
}

// SetHistory seeds the history endpoints.
func (b *Backend) SetHistory(entries []domain.HistoryEntry, today domain.TodayStats, lifetime domain.LifetimeStats) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = entries
	b.today = today
	b.lifetime = lifetime
}

// Token signs a JWT for userID expiring at exp, using the backend's key.
func Token(userID string, exp time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
		"jti": fmt.Sprintf("%s-%d", userID, exp.UnixNano()),
	})
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		panic(err)
	}
	return signed
}

func (b *Backend) issueToken(userID string) string {
	b.seq++
	tok := Token(userID, b.now().Add(time.Duration(b.seq)*time.Second+24*time.Hour))
	b.tokens[tok] = userID
	return tok
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

func (b *Backend) addCard(deckID, front, back string) *domain.Card {
	now := b.now().UTC()
	c := &domain.Card{ID: b.nextID("card"), DeckID: deckID, Front: front, Back: back, NextReviewAt: now, CreatedAt: now, UpdatedAt: now}
	b.cards[c.ID] = c
	b.cardOrder = append(b.cardOrder, c.ID)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	if message == "" {
		writeJSON(w, status, map[string]any{})
		return
	}
	writeJSON(w, status, map[string]string{"message": message})
}

// Hold delays the response to the next call of route. The response is
// computed as soon as the call arrives, so it reflects the data at that
// moment, but is only written once release is called. arrived is closed
// when the held call has been served.
func (b *Backend) Hold(route string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[route] = h
	b.mu.Unlock()
	var once sync.Once
	return h.arrived, func() { once.Do(func() { close(h.release) }) }
}

// wrap records the call, applies injected failures and holds, and enforces
// bearer auth unless public is set. The handler runs with b.mu held.
func (b *Backend) wrap(route string, public bool, h func(w http.ResponseWriter, r *http.Request, body map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&body)
		}

		b.mu.Lock()
		held, ok := b.holds[route]
		delete(b.holds, route)
		b.mu.Unlock()
		if !ok {
			b.serve(w, r, route, public, body, h)
			return
		}

		rec := httptest.NewRecorder()
		b.serve(rec, r, route, public, body, h)
		close(held.arrived)
		select {
		case <-held.release:
		case <-r.Context().Done():
			return
		}
		for k, v := range rec.Header() {
			w.Header()[k] = v
		}
		w.WriteHeader(rec.Code)
		w.Write(rec.Body.Bytes())
	}
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request, route string, public bool, body map[string]any, h func(w http.ResponseWriter, r *http.Request, body map[string]any)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[route]++
	b.lastBodies[route] = body
	b.lastAuth[route] = r.Header.Get("Authorization")

	if f, ok := b.failures[route]; ok {
		if f.once {
			delete(b.failures, route)
		}
		writeMessage(w, f.status, f.message)
		return
	}

	if !public {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, ok := b.tokens[token]; !ok {
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}
	}
	h(w, r, body)
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

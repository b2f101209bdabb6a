package domain

import "time"

// Deck is a named collection of flashcards.
type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeckStats holds the server-computed bucket counts for a deck.
type DeckStats struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Due      int `json:"due"`
}

// Total returns the number of cards across all buckets.
func (s DeckStats) Total() int {
	return s.New + s.Learning + s.Due
}

// DeckWithStats pairs a deck with its bucket counts.
type DeckWithStats struct {
	Deck
	Stats DeckStats `json:"stats"`
}

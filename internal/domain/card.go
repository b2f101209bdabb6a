package domain

import "time"

// Card is a single flashcard. NextReviewAt is computed by the backend.
type Card struct {
	ID           string    `json:"id"`
	DeckID       string    `json:"deckId"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	NextReviewAt time.Time `json:"nextReviewAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Deck         *DeckRef  `json:"deck,omitempty"`
}

// DeckRef is the abbreviated deck embedded in card responses.
type DeckRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

type ReviewRating string

const (
	RatingWrong ReviewRating = "WRONG"
	RatingGood  ReviewRating = "GOOD"
	RatingEasy  ReviewRating = "EASY"
)

// Valid reports whether r is one of the ratings the backend accepts.
func (r ReviewRating) Valid() bool {
	switch r {
	case RatingWrong, RatingGood, RatingEasy:
		return true
	}
	return false
}

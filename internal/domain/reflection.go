package domain

import "time"

// Reflection is a journal entry tied to a completed pomodoro session.
type Reflection struct {
	ID                string    `json:"id"`
	PomodoroID        string    `json:"pomodoroId"`
	UserID            string    `json:"userId"`
	Topic             string    `json:"topic"`
	WhatIThought      string    `json:"whatIThought"`
	WhatItActuallyIs  string    `json:"whatItActuallyIs"`
	Summary           string    `json:"summary"`
	MandatoryQuestion string    `json:"mandatoryQuestion"`
	OptionalQuestion  *string   `json:"optionalQuestion"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Question is a prompt served at random to enrich a reflection.
type Question struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Category *string `json:"category"`
	IsActive bool    `json:"isActive"`
}

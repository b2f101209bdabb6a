package domain

import (
	"math"
	"time"
)

type PomodoroStatus string

const (
	PomodoroActive    PomodoroStatus = "ACTIVE"
	PomodoroCompleted PomodoroStatus = "COMPLETED"
	PomodoroAbandoned PomodoroStatus = "ABANDONED"
)

// PomodoroSession is a timed focus interval tracked by the backend.
// At most one ACTIVE session exists per user.
type PomodoroSession struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	Status            PomodoroStatus `json:"status"`
	StartedAt         time.Time      `json:"startedAt"`
	EndedAt           *time.Time     `json:"endedAt"`
	Duration          int            `json:"duration"` // minutes
	ExpiresAt         time.Time      `json:"expiresAt"`
	AbandonmentReason *string        `json:"abandonmentReason"`
}

// Remaining returns max(0, expiresAt - now) rounded to whole seconds.
// It is always derived from ExpiresAt so a suspended process never drifts.
func (s *PomodoroSession) Remaining(now time.Time) time.Duration {
	if s == nil || s.ExpiresAt.IsZero() {
		return 0
	}
	d := s.ExpiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return time.Duration(math.Round(d.Seconds())) * time.Second
}

// IsActive reports whether the session is still running on the server.
func (s *PomodoroSession) IsActive() bool {
	return s != nil && s.Status == PomodoroActive
}

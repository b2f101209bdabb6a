package domain

import "time"

// HistoryEntry is one finished pomodoro as recorded by the backend.
type HistoryEntry struct {
	ID                string         `json:"id"`
	PomodoroSessionID string         `json:"pomodoroSessionId"`
	ReflectionID      *string        `json:"reflectionId"`
	UserID            string         `json:"userId"`
	Topic             string         `json:"topic"`
	Duration          int            `json:"duration"` // minutes
	Status            PomodoroStatus `json:"status"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// TodayStats aggregates the current day's activity. Times are in minutes.
type TodayStats struct {
	SessionsToday    int `json:"sessionsToday"`
	FocusedTimeToday int `json:"focusedTimeToday"`
	ReflectionsToday int `json:"reflectionsToday"`
}

// LifetimeStats aggregates all activity. Times are in minutes.
type LifetimeStats struct {
	TotalSessions    int `json:"totalSessions"`
	TotalTimeElapsed int `json:"totalTimeElapsed"`
	ThisWeekSessions int `json:"thisWeekSessions"`
	TopicsStudied    int `json:"topicsStudied"`
}

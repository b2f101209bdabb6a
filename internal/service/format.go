package service

import (
	"fmt"
	"time"
)

// FormatClock renders a countdown as mm:ss. Negative values clamp to zero.
func FormatClock(d time.Duration) string {
	secs := int(max(d, 0).Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatElapsed renders a wall-clock span as m:ss with an unpadded minute.
func FormatElapsed(d time.Duration) string {
	secs := int(max(d, 0) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// FormatMinutes renders a minute count as "45min", "1h" or "1h 30min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", max(minutes, 0))
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}

// Plural picks singular or plural based on n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/msomdec/pomodeck/internal/domain"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := domain.Ok(42)
	if !ok.OK() || ok.Data != 42 || ok.Message() != "" {
		t.Fatalf("unexpected ok result: %+v", ok)
	}

	failed := domain.Err[int](domain.KindValidation, "reason required")
	if failed.OK() {
		t.Fatal("expected failed result")
	}
	if failed.Err.Kind != domain.KindValidation {
		t.Fatalf("expected validation kind, got %s", failed.Err.Kind)
	}
	if failed.Message() != "reason required" {
		t.Fatalf("unexpected message %q", failed.Message())
	}
}

func TestPomodoroSession_Remaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session *domain.PomodoroSession
		want    time.Duration
	}{
		{"nil session", nil, 0},
		{"zero expiry", &domain.PomodoroSession{}, 0},
		{"expired", &domain.PomodoroSession{ExpiresAt: now.Add(-time.Minute)}, 0},
		{"twenty minutes", &domain.PomodoroSession{ExpiresAt: now.Add(20 * time.Minute)}, 20 * time.Minute},
		{"rounds half second up", &domain.PomodoroSession{ExpiresAt: now.Add(1500 * time.Millisecond)}, 2 * time.Second},
		{"rounds down", &domain.PomodoroSession{ExpiresAt: now.Add(1400 * time.Millisecond)}, time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.session.Remaining(now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestReviewRating_Valid(t *testing.T) {
	for _, r := range []domain.ReviewRating{domain.RatingWrong, domain.RatingGood, domain.RatingEasy} {
		if !r.Valid() {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if domain.ReviewRating("HARD").Valid() {
		t.Fatal("expected HARD to be invalid")
	}
}

func TestFailure_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want error
	}{
		{domain.KindValidation, domain.ErrValidation},
		{domain.KindTransport, domain.ErrTransport},
		{domain.KindPrecondition, domain.ErrPrecondition},
		{domain.KindAuth, domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		f := &domain.Failure{Kind: tt.kind, Message: "x"}
		if !errors.Is(f, tt.want) {
			t.Errorf("%s: expected errors.Is to match %v", tt.kind, tt.want)
		}
	}
	if errors.Unwrap(&domain.Failure{Kind: domain.KindServer}) != nil {
		t.Error("expected server failures to carry no sentinel")
	}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

const (
	msgTransport    = "Could not reach the server. Check your connection and try again."
	msgLoginAgain   = "Your session has expired. Please log in again."
	msgBusy         = "Please wait for the current request to finish."
	msgNoCompletion = "No completed pomodoro session found. Complete a session first."
)

// toResult funnels a client call into a Result. fallback is shown when the
// error carries no user-facing text of its own.
func toResult[T any](data T, err error, fallback string) domain.Result[T] {
	if err == nil {
		return domain.Ok(data)
	}
	f := classify(err, fallback)
	return domain.Result[T]{Err: f}
}

func fail[T any](f *domain.Failure) domain.Result[T] {
	return domain.Result[T]{Err: f}
}

func classify(err error, fallback string) *domain.Failure {
	var f *domain.Failure
	if errors.As(err, &f) {
		return f
	}

	if apiErr, ok := api.IsAPIError(err); ok {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &domain.Failure{Kind: domain.KindAuth, Message: msgLoginAgain}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return &domain.Failure{Kind: domain.KindValidation, Message: apiErr.Message}
		}
		return &domain.Failure{Kind: domain.KindServer, Message: apiErr.Message}
	}

	if errors.Is(err, domain.ErrTransport) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		slog.Warn("api unreachable", "error", err)
		return &domain.Failure{Kind: domain.KindTransport, Message: msgTransport}
	}

	slog.Error("unexpected api error", "error", err)
	return &domain.Failure{Kind: domain.KindServer, Message: fallback}
}

// verbatim classifies err but keeps the server's message for auth failures,
// which on login and register describe bad credentials rather than expiry.
func verbatim(err error, fallback string) *domain.Failure {
	f := classify(err, fallback)
	if apiErr, ok := api.IsAPIError(err); ok && f.Kind == domain.KindAuth {
		f.Message = apiErr.Message
	}
	return f
}

func validation(msg string) *domain.Failure {
	return &domain.Failure{Kind: domain.KindValidation, Message: msg}
}

func precondition(msg string) *domain.Failure {
	return &domain.Failure{Kind: domain.KindPrecondition, Message: msg}
}

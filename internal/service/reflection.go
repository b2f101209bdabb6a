package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/domain"
)

// QuestionPlaceholder is shown when no random question could be fetched.
const QuestionPlaceholder = "Is there anything else you want to write down about this topic?"

// ReflectionService reads and deletes stored reflections. Creating and
// editing goes through ReflectionForm.
type ReflectionService struct {
	client *api.Client
}

// NewReflectionService creates a new ReflectionService.
func NewReflectionService(client *api.Client) *ReflectionService {
	return &ReflectionService{client: client}
}

// List returns all of the user's reflections.
func (s *ReflectionService) List(ctx context.Context) domain.Result[[]domain.Reflection] {
	list, err := s.client.ListReflections(ctx)
	return toResult(list, err, "Failed to load reflections.")
}

// Search lists the reflections whose topic or summary contains query,
// ignoring case. An empty query lists everything.
func (s *ReflectionService) Search(ctx context.Context, query string) domain.Result[[]domain.Reflection] {
	res := s.List(ctx)
	if !res.OK() {
		return res
	}
	res.Data = FilterReflections(res.Data, query)
	return res
}

// FilterReflections keeps the reflections whose topic or summary contains
// query, ignoring case and surrounding whitespace.
func FilterReflections(list []domain.Reflection, query string) []domain.Reflection {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := []domain.Reflection{}
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Topic), q) || strings.Contains(strings.ToLower(r.Summary), q) {
			out = append(out, r)
		}
	}
	return out
}

// Get returns one reflection.
func (s *ReflectionService) Get(ctx context.Context, id string) domain.Result[*domain.Reflection] {
	r, err := s.client.GetReflection(ctx, id)
	return toResult(r, err, "Reflection not found.")
}

// ForPomodoro returns the reflection written for a pomodoro session.
func (s *ReflectionService) ForPomodoro(ctx context.Context, pomodoroID string) domain.Result[*domain.Reflection] {
	r, err := s.client.GetReflectionByPomodoro(ctx, pomodoroID)
	return toResult(r, err, "Reflection not found.")
}

// Form starts a create or edit form against the same backend.
func (s *ReflectionService) Form(pomodoroID, reflectionID string) *ReflectionForm {
	return NewReflectionForm(s.client, pomodoroID, reflectionID)
}

// Delete removes a reflection.
func (s *ReflectionService) Delete(ctx context.Context, id string) domain.Result[struct{}] {
	err := s.client.DeleteReflection(ctx, id)
	return toResult(struct{}{}, err, "Failed to delete reflection.")
}

// ReflectionFields are the user-editable parts of a reflection.
type ReflectionFields struct {
	Topic             string
	WhatIThought      string
	WhatItActuallyIs  string
	Summary           string
	MandatoryQuestion string
	OptionalQuestion  string
}

// FieldsOf extracts the editable fields of a stored reflection.
func FieldsOf(r *domain.Reflection) ReflectionFields {
	f := ReflectionFields{
		Topic:             r.Topic,
		WhatIThought:      r.WhatIThought,
		WhatItActuallyIs:  r.WhatItActuallyIs,
		Summary:           r.Summary,
		MandatoryQuestion: r.MandatoryQuestion,
	}
	if r.OptionalQuestion != nil {
		f.OptionalQuestion = *r.OptionalQuestion
	}
	return f
}

func (f ReflectionFields) trimmed() ReflectionFields {
	return ReflectionFields{
		Topic:             strings.TrimSpace(f.Topic),
		WhatIThought:      strings.TrimSpace(f.WhatIThought),
		WhatItActuallyIs:  strings.TrimSpace(f.WhatItActuallyIs),
		Summary:           strings.TrimSpace(f.Summary),
		MandatoryQuestion: strings.TrimSpace(f.MandatoryQuestion),
		OptionalQuestion:  strings.TrimSpace(f.OptionalQuestion),
	}
}

func (f ReflectionFields) validate() *domain.Failure {
	switch {
	case f.Topic == "":
		return validation("Topic is required.")
	case f.WhatIThought == "":
		return validation("Describe what you thought it was.")
	case f.WhatItActuallyIs == "":
		return validation("Describe what it actually is.")
	case f.Summary == "":
		return validation("Summary is required.")
	case f.MandatoryQuestion == "":
		return validation("Explain it as if to a beginner.")
	}
	return nil
}

// ReflectionForm drives creating or editing one reflection. A non-empty
// ReflectionID selects update; otherwise a completed pomodoro is required.
type ReflectionForm struct {
	client       *api.Client
	pomodoroID   string
	reflectionID string

	once   sync.Once
	prompt string
}

// NewReflectionForm creates a form. pomodoroID may be empty, in which case
// it is resolved from the current session on submit.
func NewReflectionForm(client *api.Client, pomodoroID, reflectionID string) *ReflectionForm {
	return &ReflectionForm{client: client, pomodoroID: pomodoroID, reflectionID: reflectionID}
}

// Mount pre-fetches a random question once. Failure is not an error: the
// generic placeholder is used instead.
func (f *ReflectionForm) Mount(ctx context.Context) string {
	f.once.Do(func() {
		f.prompt = QuestionPlaceholder
		q, err := f.client.RandomQuestion(ctx)
		if err != nil {
			slog.Debug("random question unavailable", "error", err)
			return
		}
		if q != nil && strings.TrimSpace(q.Text) != "" {
			f.prompt = q.Text
		}
	})
	return f.prompt
}

// PomodoroID returns the id the form is bound to, which may still be empty.
func (f *ReflectionForm) PomodoroID() string {
	return f.pomodoroID
}

// IsEdit reports whether submitting updates an existing reflection.
func (f *ReflectionForm) IsEdit() bool {
	return f.reflectionID != ""
}

// ResolvePomodoro returns the bound pomodoro id, or asks the server for the
// latest session and uses it when COMPLETED.
func (f *ReflectionForm) ResolvePomodoro(ctx context.Context) domain.Result[string] {
	if f.pomodoroID != "" {
		return domain.Ok(f.pomodoroID)
	}
	cur, err := f.client.CurrentPomodoro(ctx)
	if err != nil {
		return toResult("", err, "Failed to load the current pomodoro.")
	}
	if cur == nil || cur.Status != domain.PomodoroCompleted {
		return fail[string](precondition(msgNoCompletion))
	}
	f.pomodoroID = cur.ID
	return domain.Ok(cur.ID)
}

// Submit validates fields, then creates or updates the reflection.
func (f *ReflectionForm) Submit(ctx context.Context, fields ReflectionFields) domain.Result[*domain.Reflection] {
	fields = fields.trimmed()
	if v := fields.validate(); v != nil {
		return fail[*domain.Reflection](v)
	}

	in := api.ReflectionInput{
		Topic:             fields.Topic,
		WhatIThought:      fields.WhatIThought,
		WhatItActuallyIs:  fields.WhatItActuallyIs,
		Summary:           fields.Summary,
		MandatoryQuestion: fields.MandatoryQuestion,
	}
	if fields.OptionalQuestion != "" {
		in.OptionalQuestion = &fields.OptionalQuestion
	}

	if f.IsEdit() {
		r, err := f.client.UpdateReflection(ctx, f.reflectionID, in)
		return toResult(r, err, "Failed to save reflection.")
	}

	id := f.ResolvePomodoro(ctx)
	if !id.OK() {
		return fail[*domain.Reflection](id.Err)
	}
	in.PomodoroID = id.Data
	r, err := f.client.CreateReflection(ctx, in)
	return toResult(r, err, "Failed to save reflection.")
}

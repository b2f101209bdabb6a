package handler

import (
	"net/http"
	"net/url"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/pomodeck/internal/domain"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/view"
)

// ReflectionHandler serves the reflection list, form, and detail pages.
type ReflectionHandler struct {
	reflections *service.ReflectionService
	questions   *service.QuestionService
}

// NewReflectionHandler creates a new ReflectionHandler.
func NewReflectionHandler(reflections *service.ReflectionService, questions *service.QuestionService) *ReflectionHandler {
	return &ReflectionHandler{reflections: reflections, questions: questions}
}

// HandleList renders the reflections, filtered by ?q= when given.
func (h *ReflectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res := h.reflections.Search(r.Context(), q)
	if authFailed(w, r, res.Err) {
		return
	}
	render(w, r, statusFor(res.Err), view.ReflectionsPage(res.Data, q, res.Message()))
}

// HandleNew renders an empty form, bound to ?pomodoro= when given.
func (h *ReflectionHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	form := h.reflections.Form(r.URL.Query().Get("pomodoro"), "")
	render(w, r, http.StatusOK, view.ReflectionFormPage(view.ReflectionFormData{
		Action:     "/reflections",
		PomodoroID: form.PomodoroID(),
		Prompt:     form.Mount(r.Context()),
	}))
}

// HandleCreate submits a new reflection. Without a pomodoro id the latest
// completed session is used.
func (h *ReflectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form := h.reflections.Form(r.FormValue("pomodoro_id"), "")
	fields := fieldsFrom(r)
	res := form.Submit(r.Context(), fields)
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		render(w, r, formStatus(res.Err), view.ReflectionFormPage(view.ReflectionFormData{
			Action:     "/reflections",
			PomodoroID: form.PomodoroID(),
			Prompt:     promptFrom(r),
			Fields:     fields,
			Error:      res.Message(),
		}))
		return
	}
	http.Redirect(w, r, reflectionURL(res.Data.ID), http.StatusSeeOther)
}

// HandleQuestion swaps the optional prompt for another random question.
func (h *ReflectionHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Prompt string `json:"prompt"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	signals.Prompt = h.questions.Another(r.Context(), signals.Prompt)

	sse := datastar.NewSSE(w, r)
	sse.MarshalAndPatchSignals(signals)
	sse.PatchElementTempl(view.PromptLabel(signals.Prompt))
}

// HandleForPomodoro opens the reflection written for a pomodoro, or the
// form to write one.
func (h *ReflectionHandler) HandleForPomodoro(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := h.reflections.ForPomodoro(r.Context(), id)
	if authFailed(w, r, res.Err) {
		return
	}
	if res.OK() && res.Data != nil {
		http.Redirect(w, r, reflectionURL(res.Data.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/reflections/new?pomodoro="+url.QueryEscape(id), http.StatusSeeOther)
}

// HandleView renders one reflection.
func (h *ReflectionHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	res := h.reflections.Get(r.Context(), r.PathValue("id"))
	if !res.OK() || res.Data == nil {
		renderError(w, r, "Reflection not found", orNotFound(res.Err, "Reflection not found."))
		return
	}
	render(w, r, http.StatusOK, view.ReflectionPage(res.Data, ""))
}

// HandleEdit renders the form pre-filled with the stored reflection.
func (h *ReflectionHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := h.reflections.Get(r.Context(), id)
	if !res.OK() || res.Data == nil {
		renderError(w, r, "Reflection not found", orNotFound(res.Err, "Reflection not found."))
		return
	}
	form := h.reflections.Form(res.Data.PomodoroID, id)
	render(w, r, http.StatusOK, view.ReflectionFormPage(view.ReflectionFormData{
		Action: reflectionURL(id),
		Prompt: form.Mount(r.Context()),
		Fields: service.FieldsOf(res.Data),
		Edit:   true,
	}))
}

// HandleUpdate submits the edit form.
func (h *ReflectionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fields := fieldsFrom(r)
	res := h.reflections.Form("", id).Submit(r.Context(), fields)
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		render(w, r, formStatus(res.Err), view.ReflectionFormPage(view.ReflectionFormData{
			Action: reflectionURL(id),
			Prompt: promptFrom(r),
			Fields: fields,
			Edit:   true,
			Error:  res.Message(),
		}))
		return
	}
	http.Redirect(w, r, reflectionURL(id), http.StatusSeeOther)
}

// HandleDelete deletes a reflection.
func (h *ReflectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res := h.reflections.Delete(r.Context(), id)
	if authFailed(w, r, res.Err) {
		return
	}
	if !res.OK() {
		current := h.reflections.Get(r.Context(), id)
		if current.OK() && current.Data != nil {
			render(w, r, formStatus(res.Err), view.ReflectionPage(current.Data, res.Message()))
			return
		}
		renderError(w, r, "Reflection not found", res.Err)
		return
	}
	http.Redirect(w, r, "/reflections", http.StatusSeeOther)
}

func fieldsFrom(r *http.Request) service.ReflectionFields {
	return service.ReflectionFields{
		Topic:             r.FormValue("topic"),
		WhatIThought:      r.FormValue("what_i_thought"),
		WhatItActuallyIs:  r.FormValue("what_it_actually_is"),
		Summary:           r.FormValue("summary"),
		MandatoryQuestion: r.FormValue("mandatory_question"),
		OptionalQuestion:  r.FormValue("optional_question"),
	}
}

func promptFrom(r *http.Request) string {
	if p := r.FormValue("prompt"); p != "" {
		return p
	}
	return service.QuestionPlaceholder
}

// formStatus is statusFor, except that a server error is reported as such
// rather than as a plain 200 re-render.
func formStatus(f *domain.Failure) int {
	if s := statusFor(f); s != http.StatusOK {
		return s
	}
	return http.StatusBadGateway
}

func orNotFound(f *domain.Failure, msg string) *domain.Failure {
	if f != nil {
		return f
	}
	return &domain.Failure{Kind: domain.KindServer, Message: msg}
}

func reflectionURL(id string) string {
	return "/reflections/" + url.PathEscape(id)
}

package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/draft"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/save"
	"github.com/debemdeboas/denuo-web/internal/view"
	"github.com/rs/zerolog"
)

// formString returns nil for fields the form did not submit, so they stay unchanged.
func formString(r *http.Request, key string) *string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := r.PostForm.Get(key)
	return &v
}

func formLines(r *http.Request, key string) *[]string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := draft.ParseLines(r.PostForm.Get(key))
	return &v
}

func formStack(r *http.Request, key string) *[]string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := draft.ParseStack(r.PostForm.Get(key))
	return &v
}

type draftState struct {
	State    string
	Conflict bool
	Saving   bool
}

// respondState reports the draft's state after an edit.
func (h *Handler) respondState(w http.ResponseWriter, r *http.Request, d *draft.Store) {
	state := d.State()
	saving := h.saver.Saving()
	w.Header().Set(config.HDraftState, state.String())
	w.Header().Set(config.HSaving, strconv.FormatBool(saving))
	view.Partial(w, r, h.fs, config.TemplateDraftState, draftState{
		State:    state.String(),
		Conflict: d.HasConflict(),
		Saving:   saving,
	})
}

// indexed parses the {index} path value and checks it against n.
func indexed(w http.ResponseWriter, r *http.Request, n int) (int, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 || i >= n {
		http.NotFound(w, r)
		return 0, false
	}
	return i, true
}

// update runs fn and turns an out-of-range panic into a conflict. The draft can shrink between the
// index check and the edit when an upstream document with fewer items is applied.
func update(w http.ResponseWriter, r *http.Request, fn func()) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			zerolog.Ctx(r.Context()).Warn().Interface("panic", rec).Msg("Draft changed under edit")
			http.Error(w, "Draft changed, reload the editor", http.StatusConflict)
			ok = false
		}
	}()
	fn()
	return true
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) serveHero(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	if !h.parseForm(w, r) {
		return
	}
	d.SetHero(draft.HeroPatch{
		Eyebrow:      formString(r, "eyebrow"),
		Title:        formString(r, "title"),
		Subtitle:     formString(r, "subtitle"),
		Badge:        formString(r, "badge"),
		PrimaryCTA:   formString(r, "primaryCta"),
		SecondaryCTA: formString(r, "secondaryCta"),
	})
	h.respondState(w, r, d)
}

func (h *Handler) serveContact(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	if !h.parseForm(w, r) {
		return
	}
	d.SetContact(draft.ContactPatch{
		Headline: formString(r, "headline"),
		Subhead:  formString(r, "subhead"),
		Email:    formString(r, "email"),
		Phone:    formString(r, "phone"),
		Calendly: formString(r, "calendly"),
		Note:     formString(r, "note"),
	})
	h.respondState(w, r, d)
}

func (h *Handler) serveDifferentiators(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	if !h.parseForm(w, r) {
		return
	}
	if lines := formLines(r, "differentiators"); lines != nil {
		d.SetDifferentiators(*lines)
	}
	h.respondState(w, r, d)
}

func (h *Handler) serveService(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	i, ok := indexed(w, r, len(d.Draft().Services))
	if !ok || !h.parseForm(w, r) {
		return
	}
	patch := draft.ServicePatch{
		Title:   formString(r, "title"),
		Summary: formString(r, "summary"),
		Bullets: formLines(r, "bullets"),
		Badge:   formString(r, "badge"),
	}
	if update(w, r, func() { d.UpdateService(i, patch) }) {
		h.respondState(w, r, d)
	}
}

func (h *Handler) serveProject(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	i, ok := indexed(w, r, len(d.Draft().Projects))
	if !ok || !h.parseForm(w, r) {
		return
	}
	patch := draft.ProjectPatch{
		Name:    formString(r, "name"),
		Summary: formString(r, "summary"),
		Impact:  formString(r, "impact"),
		Stack:   formStack(r, "stack"),
		Status:  formString(r, "status"),
		Link:    formString(r, "link"),
	}
	if update(w, r, func() { d.UpdateProject(i, patch) }) {
		h.respondState(w, r, d)
	}
}

func (h *Handler) serveProcess(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	i, ok := indexed(w, r, len(d.Draft().Process))
	if !ok || !h.parseForm(w, r) {
		return
	}
	patch := draft.ProcessPatch{
		Title:   formString(r, "title"),
		Detail:  formString(r, "detail"),
		Outcome: formString(r, "outcome"),
	}
	if update(w, r, func() { d.UpdateProcess(i, patch) }) {
		h.respondState(w, r, d)
	}
}

// Appends change the list layout, so the editor reloads.
func (h *Handler) serveAppendService(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	i := d.AppendService()
	zerolog.Ctx(r.Context()).Debug().Int("index", i).Msg("Service appended")
	w.Header().Set(config.HHxRefresh, "true")
	h.respondState(w, r, d)
}

func (h *Handler) serveAppendProject(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	i := d.AppendProject()
	zerolog.Ctx(r.Context()).Debug().Int("index", i).Msg("Project appended")
	w.Header().Set(config.HHxRefresh, "true")
	h.respondState(w, r, d)
}

// serveSync accepts the upstream document held back under the hold policy.
func (h *Handler) serveSync(w http.ResponseWriter, r *http.Request, _ *identity.Session, d *draft.Store) {
	if !d.AcceptUpstream() {
		d.Initialize(h.content.Current())
	}
	w.Header().Set(config.HHxRefresh, "true")
	h.status(w, r, config.StatusSyncedUpstream, false)
}

func (h *Handler) serveSave(w http.ResponseWriter, r *http.Request, s *identity.Session, d *draft.Store) {
	if err := h.saver.Save(r.Context(), d.Draft()); err != nil {
		var saveErr *save.SaveError
		if errors.As(err, &saveErr) {
			err = saveErr.Err
		}
		h.statusf(w, r, true, config.StatusSaveFailedFmt, err)
		return
	}

	adminLogger.Info().Str("session_id", s.ID).Str("user_id", string(s.UserID)).Msg("Draft published")
	w.Header().Set(config.HDraftState, d.State().String())
	w.Header().Set(config.HHxTrigger, "contentSaved")
	h.status(w, r, config.StatusSaved, false)
}

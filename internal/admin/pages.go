package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/view"
	"github.com/rs/zerolog"
)

type editorData struct {
	*model.PageData
	Session  *identity.Session
	Draft    *model.SiteContent
	State    string
	Conflict bool
	Billing  bool
}

type loginData struct {
	*model.PageData
	SignInURL string
	Hosted    bool
}

func (h *Handler) serveAdmin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCacheControl, "no-store")

	s, ok := identity.SessionFromContext(r.Context())
	if !ok {
		view.Page(w, r, h.fs, config.TemplateLogin, loginData{
			PageData:  model.NewPageData(r),
			SignInURL: h.signInURL,
			Hosted:    h.signInURL != "",
		})
		return
	}

	d := h.drafts.Open(s.ID, h.content.Current())
	w.Header().Set(config.HDraftState, d.State().String())

	view.Page(w, r, h.fs, config.TemplateAdmin, editorData{
		PageData: model.NewPageData(r),
		Session:  s,
		Draft:    d.Draft(),
		State:    d.State().String(),
		Conflict: d.HasConflict(),
		Billing:  h.invoices != nil,
	})
}

func (h *Handler) serveLogin(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	s, err := h.provider.SignIn(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, identity.ErrSignInUnsupported) && h.signInURL != "" {
		w.Header().Set(config.HHxRedirect, h.signInURL)
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("Sign-in failed")
		h.status(w, r, config.StatusSignInFailed, true)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSession,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	log.Info().Str("user_id", string(s.UserID)).Msg("Signed in")
	w.Header().Set(config.HHxRedirect, "/admin")
	h.status(w, r, config.StatusSignedIn, false)
}

func (h *Handler) serveLogout(w http.ResponseWriter, r *http.Request) {
	if s, ok := identity.SessionFromContext(r.Context()); ok {
		if err := h.provider.SignOut(r.Context(), s); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Sign-out failed")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSession,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set(config.HHxRedirect, "/admin")
	h.status(w, r, config.StatusSignedOut, false)
}

// Package admin serves the content editor and the invoice form.
package admin

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/content"
	"github.com/debemdeboas/denuo-web/internal/draft"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/invoice"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/routes"
	"github.com/debemdeboas/denuo-web/internal/save"
	"github.com/debemdeboas/denuo-web/internal/view"
	"github.com/rs/zerolog"
)

var adminLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	adminLogger = l
}

type Options struct {
	FS       fs.FS
	Provider identity.Provider
	Drafts   *draft.Registry
	Content  *content.Service
	Saver    *save.Controller
	// Invoices is nil when billing is disabled.
	Invoices  *invoice.Builder
	SignInURL string
}

type Handler struct {
	fs        fs.FS
	provider  identity.Provider
	drafts    *draft.Registry
	content   *content.Service
	saver     *save.Controller
	invoices  *invoice.Builder
	signInURL string
}

// NewHandler wires drafts to upstream content changes and to sign-out.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		fs:        opts.FS,
		provider:  opts.Provider,
		drafts:    opts.Drafts,
		content:   opts.Content,
		saver:     opts.Saver,
		invoices:  opts.Invoices,
		signInURL: opts.SignInURL,
	}

	h.content.OnChange(func(doc *model.SiteContent) {
		h.drafts.ApplyUpstream(doc)
	})
	h.provider.OnAuthStateChanged(func(s *identity.Session, signedIn bool) {
		if !signedIn && s != nil {
			h.drafts.Discard(s.ID)
		}
	})

	return h
}

// Routes returns the admin mux behind the identity middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.Admin, h.serveAdmin)
	mux.HandleFunc("POST "+routes.AdminLogin, h.serveLogin)
	mux.HandleFunc("POST "+routes.AdminLogout, h.serveLogout)

	mux.HandleFunc("POST "+routes.AdminDraftHero, h.withDraft(h.serveHero))
	mux.HandleFunc("POST "+routes.AdminDraftContact, h.withDraft(h.serveContact))
	mux.HandleFunc("POST "+routes.AdminDraftDiffs, h.withDraft(h.serveDifferentiators))
	mux.HandleFunc("POST "+routes.AdminDraftService, h.withDraft(h.serveService))
	mux.HandleFunc("POST "+routes.AdminDraftProject, h.withDraft(h.serveProject))
	mux.HandleFunc("POST "+routes.AdminDraftStep, h.withDraft(h.serveProcess))
	mux.HandleFunc("POST "+routes.AdminAddService, h.withDraft(h.serveAppendService))
	mux.HandleFunc("POST "+routes.AdminAddProject, h.withDraft(h.serveAppendProject))
	mux.HandleFunc("POST "+routes.AdminDraftSync, h.withDraft(h.serveSync))
	mux.HandleFunc("POST "+routes.AdminSave, h.withDraft(h.serveSave))

	mux.HandleFunc("POST "+routes.AdminInvoice, h.serveInvoice)

	return h.provider.Middleware()(mux)
}

type status struct {
	Message string
	Error   bool
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request, msg string, isError bool) {
	view.Partial(w, r, h.fs, config.TemplateStatus, status{Message: msg, Error: isError})
}

func (h *Handler) statusf(w http.ResponseWriter, r *http.Request, isError bool, format string, args ...any) {
	h.status(w, r, fmt.Sprintf(format, args...), isError)
}

// draftFunc handles a request for a signed-in session and its draft.
type draftFunc func(w http.ResponseWriter, r *http.Request, s *identity.Session, d *draft.Store)

func (h *Handler) withDraft(next draftFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := identity.Enforce(w, r)
		if !ok {
			return
		}
		d := h.drafts.Open(s.ID, h.content.Current())
		next(w, r, s, d)
	}
}

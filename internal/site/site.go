// Package site serves the public landing page and visitor preferences.
package site

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/content"
	"github.com/debemdeboas/denuo-web/internal/i18n"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/theme"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/debemdeboas/denuo-web/internal/view"
)

type Handler struct {
	fs      fs.FS
	content *content.Service
}

func NewHandler(fsys fs.FS, c *content.Service) *Handler {
	return &Handler{fs: fsys, content: c}
}

// ServeIndex renders the landing page from the authoritative document.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		*model.PageData
		Content *model.SiteContent
	}{
		PageData: model.NewPageData(r),
		Content:  h.content.Current(),
	}

	// Cookies change the rendering, content changes the hash.
	etag := util.ContentHashString(h.content.Hash() + data.Lang + data.Appearance.Appearance + data.Appearance.AccentColor)
	w.Header().Set(config.HETag, `"`+util.ShortHash(etag)+`"`)
	if r.Header.Get("If-None-Match") == w.Header().Get(config.HETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	view.Page(w, r, h.fs, config.TemplateIndex, data)
}

func ServeThemeToggle(w http.ResponseWriter, r *http.Request) {
	next := theme.FromRequest(r, config.AppConfig.Theme).Toggle()
	theme.SetCookie(w, next)

	w.Header().Set(config.HHxTrigger, fmt.Sprintf(`{"themeChanged":{"value":"%s"}}`, next.Appearance))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.Icon(next.Appearance)))
}

// ServeLanguageToggle switches between English and Japanese and reloads the page.
func ServeLanguageToggle(w http.ResponseWriter, r *http.Request) {
	next := i18n.Toggle(i18n.FromRequest(r, config.AppConfig.Language))
	i18n.SetCookie(w, next)

	w.Header().Set(config.HHxRefresh, "true")
	w.WriteHeader(http.StatusOK)
}

func ServeRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, "text/plain")
	w.Write([]byte("User-agent: *\nDisallow: /admin\nDisallow: /api/\n"))
}

package model

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/i18n"
	"github.com/debemdeboas/denuo-web/internal/theme"
)

// PageData is the layout's view of a request.
type PageData struct {
	SiteName    string
	Description string

	PageURL string

	Lang       string
	Copy       i18n.Copy
	Appearance theme.Appearance
	ThemeIcon  template.HTML
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.AppConfig
	appearance := theme.FromRequest(r, cfg.Theme)
	lang := i18n.FromRequest(r, cfg.Language)

	return &PageData{
		SiteName:    cfg.Site.Name,
		Description: cfg.Site.Description,
		PageURL:     r.URL.Path,
		Lang:        lang,
		Copy:        i18n.For(lang),
		Appearance:  appearance,
		ThemeIcon:   theme.Icon(appearance.Appearance),
	}
}

func (pd *PageData) IsAdmin() bool {
	return strings.HasPrefix(pd.PageURL, "/admin")
}

// Package view parses the embedded templates with the helpers every page uses.
package view

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/draft"
	"github.com/debemdeboas/denuo-web/internal/render"
	"github.com/rs/zerolog"
)

var Funcs = template.FuncMap{
	"inline":    render.Inline,
	"joinLines": draft.JoinLines,
	"joinStack": draft.JoinStack,
}

// Parse loads the named files from the templates directory of fsys.
func Parse(fsys fs.FS, names ...string) (*template.Template, error) {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = config.TemplatesLocalDir + "/" + name
	}
	return template.New(names[0]).Funcs(Funcs).ParseFS(fsys, paths...)
}

// Page renders a full page: the layout plus page and the shared partials.
func Page(w http.ResponseWriter, r *http.Request, fsys fs.FS, page string, data any) {
	tmpl, err := Parse(fsys, config.TemplateLayout, page, config.TemplatePartials)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", page).Msg("Error parsing template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", page).Msg("Error executing template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Partial renders one named template from partials.html.
func Partial(w http.ResponseWriter, r *http.Request, fsys fs.FS, name string, data any) {
	tmpl, err := Parse(fsys, config.TemplatePartials)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Error parsing template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Error executing template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Package render turns operator-written text into safe inline HTML.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/debemdeboas/denuo-web/internal/cache"
	"github.com/gomarkdown/markdown"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Content is edited by anyone with admin access and lands on the public page, so raw HTML is dropped.
const rendererFlags = md_html.SkipHTML | md_html.Safelink | md_html.HrefTargetBlank |
	md_html.NofollowLinks | md_html.NoreferrerLinks | md_html.NoopenerLinks

const parserExtensions = parser.Autolink | parser.Strikethrough | parser.NoIntraEmphasis

var inlineCache = cache.NewCache[string, template.HTML]()

// Inline renders a short markdown snippet (emphasis, links, code spans) without the paragraph wrapper.
func Inline(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if cached, ok := inlineCache.Get(text); ok {
		return cached
	}

	out := renderInline(text)
	inlineCache.Set(text, out)
	return out
}

func renderInline(text string) template.HTML {
	doc := parser.NewWithExtensions(parserExtensions).Parse(markdown.NormalizeNewlines([]byte(text)))
	rendered := markdown.Render(doc, md_html.NewRenderer(md_html.RendererOptions{Flags: rendererFlags}))

	rendered = bytes.TrimSpace(rendered)
	// A single paragraph is unwrapped; anything with more structure is kept whole.
	if bytes.HasPrefix(rendered, []byte("<p>")) && bytes.HasSuffix(rendered, []byte("</p>")) &&
		bytes.Count(rendered, []byte("<p>")) == 1 {
		rendered = rendered[len("<p>") : len(rendered)-len("</p>")]
	}

	renderLogger.Debug().Int("length", len(text)).Msg("Rendered inline markdown")
	return template.HTML(rendered)
}

// ClearCache drops every rendered snippet. Called when new content is published.
func ClearCache() {
	inlineCache.Clear()
}

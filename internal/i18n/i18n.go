// Package i18n picks the visitor's language and holds the UI copy.
package i18n

import (
	"net/http"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"golang.org/x/text/language"
)

const (
	English  = "en"
	Japanese = "ja"
)

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)
)

func isSupported(lang string) bool {
	return lang == English || lang == Japanese
}

// FromRequest prefers the language cookie, then Accept-Language, then the configured default.
func FromRequest(r *http.Request, cfg config.LanguageConfig) string {
	if cookie, err := r.Cookie(config.CookieLanguage); err == nil && isSupported(cookie.Value) {
		return cookie.Value
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				base, _ := supported[idx].Base()
				return base.String()
			}
		}
	}

	if isSupported(cfg.Default) {
		return cfg.Default
	}
	return English
}

func Toggle(lang string) string {
	if lang == Japanese {
		return English
	}
	return Japanese
}

func SetCookie(w http.ResponseWriter, lang string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieLanguage,
		Value:    lang,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Package theme reads and writes the visitor's appearance preferences.
package theme

import (
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
)

const cookieMaxAge = 365 * 24 * time.Hour

// Appearance mirrors the persisted theme settings. Only Appearance is toggled from the UI.
type Appearance struct {
	Appearance      string `json:"appearance"`
	AccentColor     string `json:"accentColor"`
	GrayColor       string `json:"grayColor"`
	PanelBackground string `json:"panelBackground"`
	Radius          string `json:"radius"`
	Scaling         string `json:"scaling"`
}

func Default(cfg config.ThemeConfig) Appearance {
	return Appearance{
		Appearance:      cfg.Appearance,
		AccentColor:     cfg.AccentColor,
		GrayColor:       cfg.GrayColor,
		PanelBackground: cfg.PanelBackground,
		Radius:          cfg.Radius,
		Scaling:         cfg.Scaling,
	}
}

// FromRequest decodes the theme cookie. Missing or unknown values fall back to cfg.
func FromRequest(r *http.Request, cfg config.ThemeConfig) Appearance {
	a := Default(cfg)

	cookie, err := r.Cookie(config.CookieTheme)
	if err != nil {
		return a
	}
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return a
	}

	var stored Appearance
	if err := json.Unmarshal(data, &stored); err != nil {
		return a
	}

	if stored.Appearance == config.LightAppearance || stored.Appearance == config.DarkAppearance {
		a.Appearance = stored.Appearance
	}
	for dst, src := range map[*string]string{
		&a.AccentColor:     stored.AccentColor,
		&a.GrayColor:       stored.GrayColor,
		&a.PanelBackground: stored.PanelBackground,
		&a.Radius:          stored.Radius,
		&a.Scaling:         stored.Scaling,
	} {
		if src != "" {
			*dst = src
		}
	}
	return a
}

// Toggle flips between light and dark.
func (a Appearance) Toggle() Appearance {
	if a.Appearance == config.DarkAppearance {
		a.Appearance = config.LightAppearance
	} else {
		a.Appearance = config.DarkAppearance
	}
	return a
}

func SetCookie(w http.ResponseWriter, a Appearance) {
	data, _ := json.Marshal(a)
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Icon is the button face for switching away from appearance.
func Icon(appearance string) template.HTML {
	if appearance == config.LightAppearance {
		return template.HTML(config.DarkThemeIcon)
	}
	return template.HTML(config.LightThemeIcon)
}

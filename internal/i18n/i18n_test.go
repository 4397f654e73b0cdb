package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/debemdeboas/denuo-web/internal/config"
)

func TestFromRequest(t *testing.T) {
	cfg := config.LanguageConfig{Default: "en"}

	testCases := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"default", "", "", "en"},
		{"cookie wins", "ja", "en-US", "ja"},
		{"unsupported cookie ignored", "fr", "ja-JP,ja;q=0.9", "ja"},
		{"accept japanese", "", "ja-JP,en;q=0.5", "ja"},
		{"accept english variant", "", "en-GB", "en"},
		{"unsupported accept", "", "de-DE", "en"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: config.CookieLanguage, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}

			if got := FromRequest(req, cfg); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	if Toggle("en") != "ja" || Toggle("ja") != "en" {
		t.Error("Expected toggle to switch between en and ja")
	}
}

func TestCopy(t *testing.T) {
	for lang, c := range copies {
		for key := range copies[English] {
			if _, ok := c[key]; !ok {
				t.Errorf("Language %q is missing %q", lang, key)
			}
		}
	}

	if For("ja").T("admin.save") != "保存" {
		t.Error("Expected Japanese copy")
	}
	if For("xx").T("admin.save") != "Save" {
		t.Error("Expected English fallback")
	}
	if For("en").T("missing.key") != "missing.key" {
		t.Error("Expected unknown keys to render as themselves")
	}
}

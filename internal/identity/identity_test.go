package identity

import (
	"context"
	"crypto/ed25519"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debemdeboas/denuo-web/internal/config"
)

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer ", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(req); got != tc.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := SessionFromContext(ctx); ok {
		t.Error("Expected no session in empty context")
	}
	if _, ok := UserIDFromContext(ctx); ok {
		t.Error("Expected no user in empty context")
	}

	s := &Session{ID: "sid", UserID: "admin"}
	ctx = ContextWithSession(ctx, s)

	got, ok := SessionFromContext(ctx)
	if !ok || got != s {
		t.Error("Expected session from context")
	}
	if id, ok := UserIDFromContext(ctx); !ok || id != "admin" {
		t.Errorf("Expected user 'admin', got %q", id)
	}

	if _, ok := SessionFromContext(ContextWithSession(context.Background(), nil)); ok {
		t.Error("Expected nil session to count as absent")
	}
}

func TestEnforce(t *testing.T) {
	t.Run("without session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/save", nil)

		if _, ok := Enforce(rr, req); ok {
			t.Fatal("Expected Enforce to fail")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
		if rr.Header().Get(config.HHxRedirect) != "/admin" {
			t.Errorf("Expected Hx-Redirect to /admin, got %q", rr.Header().Get(config.HHxRedirect))
		}
	})

	t.Run("with session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/save", nil)
		req = req.WithContext(ContextWithSession(req.Context(), &Session{ID: "sid"}))

		s, ok := Enforce(rr, req)
		if !ok || s.ID != "sid" {
			t.Fatal("Expected Enforce to return the session")
		}
	})
}

func TestKeys(t *testing.T) {
	pemData, err := GenerateKeyPEM()
	if err != nil {
		t.Fatalf(errUnexpected, err)
	}
	if !strings.Contains(pemData, "BEGIN PRIVATE KEY") {
		t.Errorf("Expected PKCS#8 PEM, got %q", pemData)
	}

	key, err := ParsePrivateKeyPEM(pemData)
	if err != nil {
		t.Fatalf(errUnexpected, err)
	}
	if len(key) != ed25519.PrivateKeySize {
		t.Errorf("Expected %d-byte key, got %d", ed25519.PrivateKeySize, len(key))
	}

	if _, err := ParsePrivateKeyPEM("invalid-pem-data"); err == nil {
		t.Error("Expected error for invalid PEM")
	}

	loaded, err := LoadOrGenerateKey(pemData)
	if err != nil || !loaded.Equal(key) {
		t.Errorf("Expected LoadOrGenerateKey to parse the given key, err=%v", err)
	}
	ephemeral, err := LoadOrGenerateKey("")
	if err != nil || len(ephemeral) != ed25519.PrivateKeySize {
		t.Errorf("Expected an ephemeral key, err=%v", err)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := config.AuthConfig{}
	config.ApplyDefaults(&cfg)

	t.Run("password", func(t *testing.T) {
		t.Setenv(config.EnvSessionSigningKey, "")
		t.Setenv(config.EnvAdminEmail, testEmail)

		p, err := NewProvider(cfg)
		if err != nil {
			t.Fatalf(errUnexpected, err)
		}
		if _, ok := p.(*PasswordProvider); !ok {
			t.Errorf("Expected *PasswordProvider, got %T", p)
		}
	})

	t.Run("password with bad key", func(t *testing.T) {
		t.Setenv(config.EnvSessionSigningKey, "not a pem")
		if _, err := NewProvider(cfg); err == nil {
			t.Error("Expected error for invalid signing key")
		}
	})

	t.Run("clerk without key", func(t *testing.T) {
		t.Setenv(config.EnvClerkSecretKey, "")
		cfg := cfg
		cfg.Type = "clerk"
		if _, err := NewProvider(cfg); err == nil {
			t.Error("Expected error when the Clerk key is missing")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := cfg
		cfg.Type = "oauth"
		if _, err := NewProvider(cfg); err == nil {
			t.Error("Expected error for unknown auth type")
		}
	})
}

func TestClerkProvider(t *testing.T) {
	c := NewClerkProvider("sk_test_dummy", []string{"user_admin"})

	if _, err := c.SignIn(context.Background(), "a", "b"); !errors.Is(err, ErrSignInUnsupported) {
		t.Errorf("Expected ErrSignInUnsupported, got %v", err)
	}

	if !c.allowed("user_admin") || c.allowed("user_other") {
		t.Error("Expected allow-list to be enforced")
	}
	if empty := NewClerkProvider("sk_test_dummy", nil); empty.allowed("anyone") || empty.allowed("") {
		t.Error("Expected empty allow-list to deny every user")
	}

	signedOut := false
	c.OnAuthStateChanged(func(_ *Session, signedIn bool) { signedOut = !signedIn })
	if err := c.SignOut(context.Background(), &Session{ID: "user_admin"}); err != nil {
		t.Fatalf(errUnexpected, err)
	}
	if !signedOut {
		t.Error("Expected sign-out event")
	}
}

func TestClerkToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if clerkToken(req) != "" {
		t.Error("Expected no token")
	}

	req.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-jwt"})
	if got := clerkToken(req); got != "cookie-jwt" {
		t.Errorf("Expected cookie token, got %q", got)
	}

	req.Header.Set("Authorization", "Bearer header-jwt")
	if got := clerkToken(req); got != "header-jwt" {
		t.Errorf("Expected header token to win, got %q", got)
	}
}

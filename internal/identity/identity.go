// Package identity signs operators in and out and attaches their session to requests.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/rs/zerolog"
)

var identityLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	identityLogger = l
}

var (
	// ErrInvalidCredentials is returned by SignIn for a wrong email or password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrNoSession          = errors.New("identity: no valid session")
	ErrSignInUnsupported  = errors.New("identity: sign-in happens on the hosted provider")
)

type Session struct {
	// ID identifies the session for draft bookkeeping and revocation.
	ID        string
	UserID    model.UserID
	Email     string
	Token     string
	ExpiresAt time.Time
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, s *Session) error

	// Middleware attaches a valid session to the request context. Requests without one pass through.
	Middleware() func(http.Handler) http.Handler

	// OnAuthStateChanged registers fn for sign-in and sign-out events and returns its unsubscribe func.
	OnAuthStateChanged(fn func(s *Session, signedIn bool)) func()
}

type contextKey string

const contextKeySession contextKey = "session"

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKeySession, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKeySession).(*Session)
	return s, ok && s != nil
}

func UserIDFromContext(ctx context.Context) (model.UserID, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return "", false
	}
	return s.UserID, true
}

// Enforce returns the request's session, or answers 401 and sends htmx clients to the login form.
func Enforce(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		zerolog.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Unauthorized access attempt")
		w.Header().Set(config.HHxRedirect, "/admin")
		http.Error(w, config.ErrUnauthorized, http.StatusUnauthorized)
		return nil, false
	}
	return s, true
}

// BearerToken reads "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	h := r.Header.Get(config.HAuthorization)
	if len(h) > len(config.BearerPrefix) && strings.EqualFold(h[:len(config.BearerPrefix)], config.BearerPrefix) {
		return strings.TrimSpace(h[len(config.BearerPrefix):])
	}
	return ""
}

// listeners fans auth events out to OnAuthStateChanged callbacks.
type listeners struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(*Session, bool)
}

func (l *listeners) add(fn func(*Session, bool)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(*Session, bool))
	}
	l.nextID++
	id := l.nextID
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners) emit(s *Session, signedIn bool) {
	l.mu.Lock()
	fns := make([]func(*Session, bool), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(s, signedIn)
	}
}

// NewProvider builds the provider named by cfg.Type with secrets from the environment.
func NewProvider(cfg config.AuthConfig) (Provider, error) {
	switch cfg.Type {
	case "password":
		key, err := LoadOrGenerateKey(config.Env(config.EnvSessionSigningKey, ""))
		if err != nil {
			return nil, err
		}
		return NewPasswordProvider(
			config.Env(config.EnvAdminEmail, ""),
			config.Env(config.EnvAdminPasswordHash, ""),
			key,
			cfg.SessionTTL.Duration,
		), nil
	case "clerk":
		secret := config.Env(config.EnvClerkSecretKey, "")
		if secret == "" {
			return nil, errors.New("identity: " + config.EnvClerkSecretKey + " is not set")
		}
		return NewClerkProvider(secret, cfg.AdminUsers), nil
	default:
		return nil, errors.New("identity: unsupported auth type " + cfg.Type)
	}
}

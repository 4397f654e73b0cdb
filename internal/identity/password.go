package identity

import (
	"context"
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/debemdeboas/denuo-web/internal/cache"
	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Compared against when the email is wrong so both failures cost one bcrypt round.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3pN7bXjXk1W0Pf1yGqvN6.K")

type tokenClaims struct {
	ID      string `json:"jti"`
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Expiry  int64  `json:"exp"`
}

// PasswordProvider signs in a single admin account and issues Ed25519-signed bearer tokens.
type PasswordProvider struct {
	email        string
	passwordHash []byte
	key          ed25519.PrivateKey
	ttl          time.Duration

	revoked   *cache.Cache[string, struct{}]
	listeners listeners

	now func() time.Time
}

func NewPasswordProvider(email, passwordHash string, key ed25519.PrivateKey, ttl time.Duration) *PasswordProvider {
	if email == "" || passwordHash == "" {
		identityLogger.Warn().Msg("Admin email or password hash not set, sign-in is disabled")
	}

	return &PasswordProvider{
		email:        strings.TrimSpace(email),
		passwordHash: []byte(passwordHash),
		key:          key,
		ttl:          ttl,
		revoked:      cache.NewCache[string, struct{}](),
		now:          time.Now,
	}
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (p *PasswordProvider) SignIn(_ context.Context, email, password string) (*Session, error) {
	if p.email == "" || len(p.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(strings.ToLower(p.email))) == 1

	hash := p.passwordHash
	if !emailOK {
		hash = dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !emailOK {
		identityLogger.Warn().Str("email", email).Msg("Sign-in failed")
		return nil, ErrInvalidCredentials
	}

	session, err := p.issue()
	if err != nil {
		return nil, err
	}

	identityLogger.Info().Str("session_id", session.ID).Msg("Signed in")
	p.listeners.emit(session, true)
	return session, nil
}

func (p *PasswordProvider) issue() (*Session, error) {
	expires := p.now().Add(p.ttl)
	claims := tokenClaims{
		ID:      uuid.New().String(),
		Subject: p.email,
		Email:   p.email,
		Expiry:  expires.Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, err
	}
	sig := ed25519.Sign(p.key, payload)

	token := base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(sig)
	return &Session{
		ID:        claims.ID,
		UserID:    model.UserID(claims.Subject),
		Email:     claims.Email,
		Token:     token,
		ExpiresAt: time.Unix(claims.Expiry, 0),
	}, nil
}

// Verify checks the signature, expiry and revocation of a token.
func (p *PasswordProvider) Verify(token string) (*Session, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrNoSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return nil, ErrNoSession
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, ErrNoSession
	}

	if !ed25519.Verify(p.key.Public().(ed25519.PublicKey), payload, sig) {
		return nil, ErrNoSession
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrNoSession
	}

	expires := time.Unix(claims.Expiry, 0)
	if !p.now().Before(expires) {
		return nil, ErrNoSession
	}
	if _, revoked := p.revoked.Get(claims.ID); revoked {
		return nil, ErrNoSession
	}

	return &Session{
		ID:        claims.ID,
		UserID:    model.UserID(claims.Subject),
		Email:     claims.Email,
		Token:     token,
		ExpiresAt: expires,
	}, nil
}

// SignOut revokes the session's token until it would have expired anyway.
func (p *PasswordProvider) SignOut(_ context.Context, s *Session) error {
	if s == nil {
		return ErrNoSession
	}

	ttl := s.ExpiresAt.Sub(p.now())
	if ttl > 0 {
		p.revoked.SetWithTTL(s.ID, struct{}{}, ttl)
	}
	p.revoked.Prune()

	identityLogger.Info().Str("session_id", s.ID).Msg("Signed out")
	p.listeners.emit(s, false)
	return nil
}

func (p *PasswordProvider) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(config.CookieSession); err == nil {
					token = cookie.Value
				}
			}

			if token != "" {
				if s, err := p.Verify(token); err == nil {
					next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), s)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (p *PasswordProvider) OnAuthStateChanged(fn func(s *Session, signedIn bool)) func() {
	return p.listeners.add(fn)
}

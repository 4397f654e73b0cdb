package identity

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/debemdeboas/denuo-web/internal/cache"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/rs/zerolog"
)

const clerkSessionCookie = "__session"

const emailCacheTTL = 10 * time.Minute

// ClerkProvider trusts Clerk session tokens. Operators sign in on Clerk's hosted pages.
type ClerkProvider struct {
	adminUsers []string

	cookieExtractor clerkhttp.AuthorizationOption
	emails          *cache.Cache[string, string]
	listeners       listeners
}

func NewClerkProvider(clerkKey string, adminUsers []string) *ClerkProvider {
	clerk.SetKey(clerkKey)

	return &ClerkProvider{
		adminUsers:      adminUsers,
		cookieExtractor: clerkhttp.AuthorizationJWTExtractor(clerkToken),
		emails:          cache.NewCache[string, string](),
	}
}

// clerkToken reads the session JWT from the Authorization header or Clerk's __session cookie.
func clerkToken(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	cookie, err := r.Cookie(clerkSessionCookie)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

func (c *ClerkProvider) SignIn(context.Context, string, string) (*Session, error) {
	return nil, ErrSignInUnsupported
}

// SignOut only notifies listeners; the Clerk session itself ends in the browser.
func (c *ClerkProvider) SignOut(_ context.Context, s *Session) error {
	if s == nil {
		return ErrNoSession
	}
	c.listeners.emit(s, false)
	return nil
}

func (c *ClerkProvider) allowed(userID string) bool {
	return slices.Contains(c.adminUsers, userID)
}

func (c *ClerkProvider) email(ctx context.Context, userID string) string {
	if email, ok := c.emails.Get(userID); ok {
		return email
	}

	usr, err := clerkuser.Get(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("Failed to fetch Clerk user")
		return ""
	}

	email := ""
	for _, addr := range usr.EmailAddresses {
		if addr != nil {
			email = addr.EmailAddress
			break
		}
	}
	c.emails.SetWithTTL(userID, email, emailCacheTTL)
	return email
}

func (c *ClerkProvider) Middleware() func(http.Handler) http.Handler {
	verify := clerkhttp.WithHeaderAuthorization(c.cookieExtractor)

	return func(next http.Handler) http.Handler {
		attach := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := clerk.SessionClaimsFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !c.allowed(claims.Subject) {
				zerolog.Ctx(r.Context()).Warn().Str("user_id", claims.Subject).Msg("Clerk user is not an admin")
				next.ServeHTTP(w, r)
				return
			}

			// One draft per Clerk user; session tokens rotate every minute.
			s := &Session{
				ID:     claims.Subject,
				UserID: model.UserID(claims.Subject),
				Email:  c.email(r.Context(), claims.Subject),
				Token:  clerkToken(r),
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), s)))
		})

		return verify(attach)
	}
}

func (c *ClerkProvider) OnAuthStateChanged(fn func(s *Session, signedIn bool)) func() {
	return c.listeners.add(fn)
}

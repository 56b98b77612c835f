package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/usamakj/auth-app-be/internal/models"
)

type contextKey string

// userKey is the context key under which the authenticated user is stored.
const userKey = contextKey("authUser")

// UserLoader resolves a user ID from a verified token into a full account.
type UserLoader interface {
	GetUserByID(id string) (models.User, error)
}

// Authenticator gates requests on a valid bearer token and an active account.
type Authenticator struct {
	tokens *TokenManager
	users  UserLoader
	deny   func(w http.ResponseWriter, message string)
}

// NewAuthenticator creates an Authenticator. deny writes the 401 response body
// so the middleware stays agnostic of the API's envelope format.
func NewAuthenticator(tokens *TokenManager, users UserLoader, deny func(w http.ResponseWriter, message string)) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, deny: deny}
}

// RequireAuth rejects the request with 401 unless it carries a valid token
// referencing an existing, active user. The user is stored in the request
// context for the handler.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(r)
		if !ok {
			a.deny(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// OptionalAuth attempts the same resolution as RequireAuth but proceeds as
// anonymous on any failure.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.resolve(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) resolve(r *http.Request) (models.User, bool) {
	tokenStr := BearerToken(r)
	if tokenStr == "" {
		return models.User{}, false
	}

	userID, err := a.tokens.Verify(tokenStr)
	if err != nil {
		return models.User{}, false
	}

	user, err := a.users.GetUserByID(userID)
	if err != nil || !user.IsActive {
		return models.User{}, false
	}
	return user, true
}

// BearerToken extracts the token from the Authorization header, or returns ""
// if the header is absent or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserFromContext returns the authenticated user stored by RequireAuth or
// OptionalAuth, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

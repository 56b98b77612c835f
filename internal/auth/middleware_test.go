package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamakj/auth-app-be/internal/apperr"
	"github.com/usamakj/auth-app-be/internal/models"
)

type stubUserLoader struct {
	users map[string]models.User
}

func (s *stubUserLoader) GetUserByID(id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	return user, nil
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *TokenManager, *stubUserLoader) {
	t.Helper()
	tokens := NewTokenManager("test-secret", time.Hour)
	loader := &stubUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Username: "alice", IsActive: true},
		"u2": {ID: "u2", Username: "gone", IsActive: false},
	}}
	deny := func(w http.ResponseWriter, message string) {
		http.Error(w, message, http.StatusUnauthorized)
	}
	return NewAuthenticator(tokens, loader, deny), tokens, loader
}

func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok {
			_, _ = w.Write([]byte(user.Username))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	a, tokens, _ := newTestAuthenticator(t)
	handler := a.RequireAuth(echoUser(t))

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Issue("u1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		token, err := tokens.Issue("deleted-user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		token, err := tokens.Issue("u2")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	a, tokens, _ := newTestAuthenticator(t)
	handler := a.OptionalAuth(echoUser(t))

	t.Run("no token proceeds anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("bad token proceeds anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		token, err := tokens.Issue("u1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"well formed", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(req))
		})
	}
}

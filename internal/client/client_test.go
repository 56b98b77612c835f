package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamakj/auth-app-be/internal/models"
)

func TestHTTPClient_ListComments(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/comments", r.URL.Path)
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Comments retrieved successfully",
			"data": models.CommentPage{
				Comments: []models.Comment{{ID: "c1", Content: "hi", IsActive: true}},
				Pagination: models.Pagination{
					CurrentPage:   2,
					TotalPages:    3,
					TotalComments: 25,
					HasNextPage:   true,
					HasPrevPage:   true,
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	page, err := c.ListComments(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, "limit=10&page=2", gotQuery)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "c1", page.Comments[0].ID)
	assert.Equal(t, 25, page.Pagination.TotalComments)
	assert.True(t, page.Pagination.HasNextPage)
}

func TestHTTPClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Validation failed",
			"errors":  []string{"Comment content is required"},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	c.SetAuthToken("tok")

	_, err := c.CreateComment(context.Background(), "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, []string{"Comment content is required"}, apiErr.Errors)
}

func TestHTTPClient_ConcurrentTokenUpdates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "" {
			assert.True(t, strings.HasPrefix(auth, "Bearer tok-"), "unexpected header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Comments retrieved successfully",
			"data":    models.CommentPage{},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.SetAuthToken("tok-" + strconv.Itoa(i))
		}(i)
		go func() {
			defer wg.Done()
			_, err := c.ListComments(context.Background(), 1, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Profile retrieved successfully",
			"data":    map[string]any{"user": models.User{ID: "u1", Username: "alice"}},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL)
	c.SetAuthToken("token-abc")

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "alice", user.Username)
}

// Package client provides the Go client for the auth-app API: an HTTP client,
// a durable session store, and the session manager that ties them together.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/usamakj/auth-app-be/internal/models"
	"github.com/usamakj/auth-app-be/internal/services"
)

// ErrUnauthorized signals that the server rejected the request with 401. The
// session manager treats it as a forced logout regardless of which call
// triggered it.
var ErrUnauthorized = errors.New("unauthorized")

// Session is the credential pair returned by login and register.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Client defines the interface for talking to the auth-app server.
type Client interface {
	// Register creates a new account and returns its session.
	Register(ctx context.Context, username, email, password, firstName, lastName string) (Session, error)
	// Login authenticates by username or email and returns a session.
	Login(ctx context.Context, identifier, password string) (Session, error)
	// Profile fetches the authenticated user's account.
	Profile(ctx context.Context) (models.User, error)
	// CheckAvailability reports whether an email and/or username are free.
	CheckAvailability(ctx context.Context, email, username string) (services.AvailabilityResult, error)
	// CreateComment posts a new comment.
	CreateComment(ctx context.Context, content string) (models.Comment, error)
	// ListComments fetches a page of active comments, newest first.
	ListComments(ctx context.Context, page, limit int) (models.CommentPage, error)
	// ListUserComments fetches a page of one author's active comments.
	ListUserComments(ctx context.Context, userID string, page, limit int) (models.CommentPage, error)
	// DeleteComment soft-deletes one of the caller's own comments.
	DeleteComment(ctx context.Context, commentID string) error
	// SetAuthToken sets the bearer token attached to authenticated requests.
	SetAuthToken(token string)
}

// httpClient implements Client over HTTP/JSON. It is safe for concurrent use;
// the mutex guards the auth token, which the session manager may swap while
// other goroutines issue requests.
type httpClient struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	authToken string
}

// NewHTTPClient creates a new API client instance.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SetAuthToken sets the bearer token for subsequent requests.
func (c *httpClient) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

func (c *httpClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// APIError carries the server-provided failure message and field errors so
// the UI can surface them directly.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	return e.Message
}

// do executes a request and decodes the envelope. out, when non-nil, receives
// the envelope's data field.
func (c *httpClient) do(ctx context.Context, method, path string, body any, out any) error {
	reqURL := strings.TrimRight(c.baseURL, "/") + path

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", env.Message, ErrUnauthorized)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

func (c *httpClient) Register(ctx context.Context, username, email, password, firstName, lastName string) (Session, error) {
	payload := map[string]string{
		"username":  username,
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", payload, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (c *httpClient) Login(ctx context.Context, identifier, password string) (Session, error) {
	payload := map[string]string{"identifier": identifier, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

func (c *httpClient) Profile(ctx context.Context) (models.User, error) {
	var data struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &data); err != nil {
		return models.User{}, err
	}
	return data.User, nil
}

func (c *httpClient) CheckAvailability(ctx context.Context, email, username string) (services.AvailabilityResult, error) {
	payload := map[string]string{"email": email, "username": username}
	var result services.AvailabilityResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/check-availability", payload, &result); err != nil {
		return services.AvailabilityResult{}, err
	}
	return result, nil
}

func (c *httpClient) CreateComment(ctx context.Context, content string) (models.Comment, error) {
	var data struct {
		Comment models.Comment `json:"comment"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/comments", map[string]string{"content": content}, &data); err != nil {
		return models.Comment{}, err
	}
	return data.Comment, nil
}

func (c *httpClient) ListComments(ctx context.Context, page, limit int) (models.CommentPage, error) {
	return c.listComments(ctx, "/api/comments", page, limit)
}

func (c *httpClient) ListUserComments(ctx context.Context, userID string, page, limit int) (models.CommentPage, error) {
	return c.listComments(ctx, "/api/comments/user/"+url.PathEscape(userID), page, limit)
}

func (c *httpClient) listComments(ctx context.Context, path string, page, limit int) (models.CommentPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result models.CommentPage
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return models.CommentPage{}, err
	}
	return result, nil
}

func (c *httpClient) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(commentID), nil, nil)
}

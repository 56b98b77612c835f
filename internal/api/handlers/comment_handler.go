package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/usamakj/auth-app-be/internal/auth"
	"github.com/usamakj/auth-app-be/internal/services"
	ws "github.com/usamakj/auth-app-be/internal/websocket"
)

// CommentHandler handles HTTP requests for the comment board.
type CommentHandler struct {
	comments services.CommentServiceProvider
	events   services.EventServiceProvider
	hub      *ws.Hub
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments services.CommentServiceProvider, events services.EventServiceProvider, hub *ws.Hub) *CommentHandler {
	return &CommentHandler{comments: comments, events: events, hub: hub}
}

// CreatePayload defines the structure for comment creation requests.
type CreatePayload struct {
	Content string `json:"content"`
}

// Create handles posting a new comment.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.comments.Create(user, payload.Content)
	if err != nil {
		Error(w, err)
		return
	}

	if err := h.events.CreateEvent("comment.created", "info", "Comment posted by "+user.Username, &user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record comment event")
	}
	h.hub.Notify("comment.created", comment)

	JSON(w, http.StatusCreated, "Comment posted successfully", map[string]any{"comment": comment})
}

// List handles retrieving all active comments, paginated.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

// ListByUser handles retrieving one author's active comments, paginated.
func (h *CommentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "userId"))
}

func (h *CommentHandler) list(w http.ResponseWriter, r *http.Request, authorID string) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.comments.List(authorID, page, limit)
	if err != nil {
		Error(w, err)
		return
	}

	message := "Comments retrieved successfully"
	if authorID != "" {
		message = "User comments retrieved successfully"
	}
	JSON(w, http.StatusOK, message, result)
}

// Delete handles soft-deleting a comment. Only the author may delete it.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	commentID := chi.URLParam(r, "commentId")
	if err := h.comments.SoftDelete(commentID, user.ID); err != nil {
		log.Warn().Err(err).Str("comment_id", commentID).Str("user_id", user.ID).Msg("Failed to delete comment")
		Error(w, err)
		return
	}

	if err := h.events.CreateEvent("comment.deleted", "info", "Comment deleted by "+user.Username, &user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record comment event")
	}
	h.hub.Notify("comment.deleted", map[string]string{"id": commentID})

	JSON(w, http.StatusOK, "Comment deleted successfully", nil)
}

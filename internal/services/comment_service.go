package services

import (
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/usamakj/auth-app-be/internal/apperr"
	"github.com/usamakj/auth-app-be/internal/models"
)

// DefaultPageSize is used when the caller supplies no usable limit.
const DefaultPageSize = 10

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	Create(author models.User, content string) (models.Comment, error)
	List(authorID string, page, pageSize int) (models.CommentPage, error)
	SoftDelete(commentID, requesterID string) error
	GetByID(commentID string) (models.Comment, error)
}

// CommentService provides business logic for the comment board.
type CommentService struct {
	db          *sql.DB
	maxPageSize int
}

// NewCommentService creates a new CommentService. maxPageSize caps the
// caller-supplied limit on listings.
func NewCommentService(db *sql.DB, maxPageSize int) *CommentService {
	return &CommentService{db: db, maxPageSize: maxPageSize}
}

// Create validates and persists a new comment, snapshotting the author's
// display name at write time.
func (s *CommentService) Create(author models.User, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, apperr.Validation("Comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return models.Comment{}, apperr.Validation("Validation failed", "Comment cannot exceed 500 characters")
	}

	comment := models.Comment{
		ID:         uuid.New().String(),
		Content:    content,
		AuthorID:   author.ID,
		AuthorName: author.FullName(),
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO comments(id, content, author_id, author_name, is_active, created_at) VALUES(?, ?, ?, ?, 1, ?)")
	if err != nil {
		return models.Comment{}, apperr.Internal("Internal server error while posting comment", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(comment.ID, comment.Content, comment.AuthorID, comment.AuthorName, sqlTime(comment.CreatedAt)); err != nil {
		return models.Comment{}, apperr.Internal("Internal server error while posting comment", err)
	}

	return comment, nil
}

// List returns a page of active comments, newest first. authorID narrows the
// listing to one author when non-empty. Page and pageSize fall back to 1 and
// DefaultPageSize when not positive; pageSize is clamped to the configured
// ceiling.
func (s *CommentService) List(authorID string, page, pageSize int) (models.CommentPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	skip := (page - 1) * pageSize

	where := "WHERE is_active = 1"
	args := []any{}
	if authorID != "" {
		where += " AND author_id = ?"
		args = append(args, authorID)
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM comments "+where, args...).Scan(&total); err != nil {
		return models.CommentPage{}, apperr.Internal("Internal server error while retrieving comments", err)
	}

	rows, err := s.db.Query(
		"SELECT id, content, author_id, author_name, is_active, created_at FROM comments "+where+" ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		append(args, pageSize, skip)...,
	)
	if err != nil {
		return models.CommentPage{}, apperr.Internal("Internal server error while retrieving comments", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.AuthorName, &c.IsActive, &c.CreatedAt); err != nil {
			return models.CommentPage{}, apperr.Internal("Internal server error while retrieving comments", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return models.CommentPage{}, apperr.Internal("Internal server error while retrieving comments", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return models.CommentPage{
		Comments: comments,
		Pagination: models.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalComments: total,
			HasNextPage:   page < totalPages,
			HasPrevPage:   page > 1,
		},
	}, nil
}

// SoftDelete marks a comment inactive. Only the comment's author may delete
// it; the row is retained in storage and excluded from listings.
func (s *CommentService) SoftDelete(commentID, requesterID string) error {
	comment, err := s.GetByID(commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != requesterID {
		return apperr.Forbidden("You can only delete your own comments")
	}

	if _, err := s.db.Exec("UPDATE comments SET is_active = 0 WHERE id = ?", commentID); err != nil {
		return apperr.Internal("Internal server error while deleting comment", err)
	}
	return nil
}

// GetByID retrieves a comment by ID, including soft-deleted ones.
func (s *CommentService) GetByID(commentID string) (models.Comment, error) {
	var c models.Comment
	row := s.db.QueryRow("SELECT id, content, author_id, author_name, is_active, created_at FROM comments WHERE id = ?", commentID)
	err := row.Scan(&c.ID, &c.Content, &c.AuthorID, &c.AuthorName, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Comment{}, apperr.NotFound("Comment not found")
		}
		return models.Comment{}, apperr.Internal("Internal server error while retrieving comment", err)
	}
	return c, nil
}

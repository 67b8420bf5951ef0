package handlers

import (
	"net/http"
	"strconv"

	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	notifier          *notifications.Writer
	logger            zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, notifier *notifications.Writer, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		notifier:          notifier,
		logger:            logger,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.ListComments)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// serializedComment is a comment with its author summary embedded
type serializedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// ListComments returns a post's active comments, oldest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if _, err := h.postRepository.GetActivePostByID(uint(postID)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	comments, err := h.commentRepository.ListActiveByPostID(uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
	}

	serialized := make([]serializedComment, len(comments))
	for i, comment := range comments {
		serialized[i] = serializedComment{Comment: comment, Author: comment.Author.ToCompact()}
	}

	return c.JSON(http.StatusOK, echo.Map{"comments": serialized})
}

// CreateComment creates a comment, incrementing the post's comment counter
// in the same transaction, and notifies the post author unless they are the
// commenter.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetActivePostByID(uint(postID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: currentUserID,
		Content:  req.Content,
		IsActive: true,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		h.logger.Error().Err(err).
			Uint("user_id", currentUserID).
			Uint("post_id", post.ID).
			Msg("failed to create comment")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	pid := post.ID
	h.notifier.Notify(c.Request().Context(), notifications.Event{
		Type:        models.NotificationComment,
		ActorID:     currentUserID,
		RecipientID: post.AuthorID,
		PostID:      &pid,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"comment": serializedComment{Comment: *comment, Author: comment.Author.ToCompact()},
	})
}

// DeleteComment soft-deletes the caller's own comment, decrementing the
// post's comment counter in the same transaction
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.commentRepository.SoftDeleteComment(uint(commentID), currentUserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

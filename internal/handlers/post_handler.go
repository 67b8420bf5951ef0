package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PostHandler handles post feed HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	likeRepository repositories.LikeRepository
	notifier       *notifications.Writer
	logger         zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository, notifier *notifications.Writer, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		likeRepository: likeRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
}

// serializedPost is a post with author summary and caller-specific flags
type serializedPost struct {
	ID           uint               `json:"id"`
	Content      string             `json:"content"`
	ImageURL     string             `json:"image_url,omitempty"`
	Category     string             `json:"category"`
	LikeCount    int                `json:"like_count"`
	CommentCount int                `json:"comment_count"`
	CreatedAt    time.Time          `json:"created_at"`
	Author       models.UserCompact `json:"author"`
	LikedByMe    bool               `json:"likedByMe"`
}

func serializePost(p *models.Post, likedByMe bool) serializedPost {
	return serializedPost{
		ID:           p.ID,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		Category:     p.Category,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
		Author:       p.Author.ToCompact(),
		LikedByMe:    likedByMe,
	}
}

// ListPosts returns a page of active posts, newest first, with likedByMe for
// the caller. hasMore is computed by over-fetching one row.
func (h *PostHandler) ListPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 0 {
		page = 0
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	posts, err := h.postRepository.ListActivePosts(page*limit, limit+1)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	likedMap := map[uint]bool{}
	if currentUserID != 0 {
		likedMap, err = h.postRepository.LikedPostIDs(currentUserID, postIDs)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch like state")
		}
	}

	serialized := make([]serializedPost, len(posts))
	for i := range posts {
		serialized[i] = serializePost(&posts[i], likedMap[posts[i].ID])
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": serialized, "hasMore": hasMore})
}

// CreatePost creates a post and fans a POST notification out to every
// follower of the author (best effort).
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category := req.Category
	if category == "" {
		category = models.CategoryGeneral
	}

	post := &models.Post{
		AuthorID: currentUserID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: category,
		IsActive: true,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		h.logger.Error().Err(err).Uint("author_id", currentUserID).Msg("failed to create post")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	h.notifier.FanOutPost(c.Request().Context(), currentUserID, post.ID)

	return c.JSON(http.StatusCreated, echo.Map{"post": serializePost(post, false)})
}

// DeletePost soft-deletes the caller's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if err := h.postRepository.SoftDeletePost(uint(postID), currentUserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// ToggleLike likes or unlikes a post. The like row and the denormalized
// counter change in one transaction; the LIKE notification fires only on the
// like half and never for the author's own post.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetActivePostByID(uint(postID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	liked, likeCount, err := h.likeRepository.ToggleLike(currentUserID, post.ID)
	if err != nil {
		if err == repositories.ErrAlreadyLiked {
			return echo.NewHTTPError(http.StatusBadRequest, "Post already liked")
		}
		h.logger.Error().Err(err).
			Uint("user_id", currentUserID).
			Uint("post_id", post.ID).
			Msg("like toggle failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	if liked {
		pid := post.ID
		h.notifier.Notify(c.Request().Context(), notifications.Event{
			Type:        models.NotificationLike,
			ActorID:     currentUserID,
			RecipientID: post.AuthorID,
			PostID:      &pid,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likeCount": likeCount})
}

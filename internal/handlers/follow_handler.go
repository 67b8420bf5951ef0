package handlers

import (
	"net/http"

	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         *notifications.Writer
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier *notifications.Writer) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notifier,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/follow", h.FollowUser)
	g.POST("/users/unfollow", h.UnfollowUser)
}

// FollowUser creates a follow edge and notifies the followed user. Self-
// follow and redundant follows are rejected before any write.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
	}

	if req.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetActiveUserByID(req.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	isFollowing, err := h.followRepository.IsFollowing(currentUserID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check follow state")
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusBadRequest, "Already following this user")
	}

	follow := &models.Follow{FollowerID: currentUserID, FollowingID: req.UserID}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to follow user")
	}

	// Best effort: a failed notification never invalidates the follow
	h.notifier.Notify(c.Request().Context(), notifications.Event{
		Type:        models.NotificationFollow,
		ActorID:     currentUserID,
		RecipientID: req.UserID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully followed user"})
}

// UnfollowUser removes a follow edge; unfollowing someone not followed is a
// conflict.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
	}

	if err := h.followRepository.DeleteFollow(currentUserID, req.UserID); err != nil {
		if err == repositories.ErrNotFollowing {
			return echo.NewHTTPError(http.StatusBadRequest, "Not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to unfollow user")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully unfollowed user"})
}

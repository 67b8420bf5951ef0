package handlers

import (
	"net/http"
	"strconv"

	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/labstack/echo/v4"
)

// notificationPageSize bounds the list endpoint to the most recent rows.
const notificationPageSize = 50

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
	notifier               *notifications.Writer
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	notifier *notifications.Writer,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		postRepository:         postRepo,
		notifier:               notifier,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PATCH("/notifications/:id/read", h.MarkAsRead)
	g.PATCH("/notifications/mark-all-read", h.MarkAllAsRead)
}

// EnrichedNotification includes sender and post summaries
type EnrichedNotification struct {
	models.Notification
	Sender models.UserCompact  `json:"sender"`
	Post   *models.PostSummary `json:"post,omitempty"`
}

// enrichNotifications decorates rows with sender and post summaries, caching
// lookups across the page.
func (h *NotificationHandler) enrichNotifications(rows []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(rows))
	senderCache := make(map[uint]models.UserCompact)
	postCache := make(map[uint]*models.PostSummary)

	for i, n := range rows {
		enriched[i] = EnrichedNotification{Notification: n}

		sender, ok := senderCache[n.SenderID]
		if !ok {
			if user, err := h.userRepository.GetUserByID(n.SenderID); err == nil {
				sender = user.ToCompact()
			}
			senderCache[n.SenderID] = sender
		}
		enriched[i].Sender = sender

		if n.PostID != nil {
			summary, ok := postCache[*n.PostID]
			if !ok {
				if post, err := h.postRepository.GetPostByID(*n.PostID); err == nil {
					s := post.ToSummary()
					summary = &s
				}
				postCache[*n.PostID] = summary
			}
			enriched[i].Post = summary
		}
	}
	return enriched
}

// GetNotifications returns the caller's most recent notifications, newest
// first, with sender and post summaries embedded
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	rows, err := h.notificationRepository.ListByRecipient(currentUserID, notificationPageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": h.enrichNotifications(rows)})
}

// GetUnreadCount returns the authoritative unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch unread count")
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read. A row owned by
// someone else is indistinguishable from a missing one: 404 either way.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.notificationRepository.MarkAsRead(uint(notifID), currentUserID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}

	// Feed update only on an actual false -> true flip
	if !notification.IsRead {
		h.notifier.NotifyRead(c.Request().Context(), notification)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead bulk-marks the caller's unread notifications. Idempotent:
// a second call flips nothing and emits no feed event.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	flipped, err := h.notificationRepository.MarkAllAsRead(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	if flipped > 0 {
		h.notifier.NotifyReadAll(c.Request().Context(), currentUserID)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

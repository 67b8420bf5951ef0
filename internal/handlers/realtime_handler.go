package handlers

import (
	"net/http"

	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/realtime"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RealtimeHandler upgrades authenticated requests to WebSocket notification
// subscriptions
type RealtimeHandler struct {
	feed                   changefeed.ChangeFeed
	notificationRepository repositories.NotificationRepository
	upgrader               websocket.Upgrader
	logger                 zerolog.Logger
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(feed changefeed.ChangeFeed, notifRepo repositories.NotificationRepository, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		feed:                   feed,
		notificationRepository: notifRepo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers cannot set Authorization on WS requests consistently;
			// origin policy is left to the fronting proxy, as with CORS.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterRealtimeRoutes registers the WebSocket endpoint
func (h *RealtimeHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/ws/notifications", h.Subscribe)
}

// Subscribe upgrades the connection and serves the caller's notification
// feed until disconnect. One subscriber per connection: concurrent sessions
// of the same user stay independently consistent.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug().Err(err).Uint("user_id", currentUserID).Msg("websocket upgrade failed")
		return nil // Upgrade already wrote the error response
	}

	subscriber := realtime.NewSubscriber(currentUserID, conn, h.feed, h.notificationRepository, h.logger)
	subscriber.Run(c.Request().Context())
	return nil
}

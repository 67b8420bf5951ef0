package middleware

import (
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/labstack/echo/v4"
)

// UserFromContext returns the authenticated user set by AuthMiddleware, or
// nil on unauthenticated requests.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(ContextUserKey).(*models.User)
	return user
}

// UserIDFromContext returns the authenticated user's id, or 0.
func UserIDFromContext(c echo.Context) uint {
	id, _ := c.Get(ContextUserIDKey).(uint)
	return id
}

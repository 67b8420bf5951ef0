package handlers

import (
	"github.com/Nagraj-13/SocialConnect/internal/middleware"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserFromContext returns the authenticated user placed on the context by
// the auth middleware, or nil.
func getUserFromContext(c echo.Context) *models.User {
	return middleware.UserFromContext(c)
}

// getUserIDFromContext returns the authenticated user's id, or 0.
func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserIDFromContext(c)
}

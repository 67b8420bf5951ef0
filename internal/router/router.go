package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/handlers"
	"github.com/Nagraj-13/SocialConnect/internal/middleware"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/notifications"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Deps carries the external dependencies the routes are wired against.
// FirebaseAuth may be nil; token resolution then falls back to local JWTs
// only.
type Deps struct {
	Postgres     *gorm.DB
	Feed         changefeed.ChangeFeed
	FirebaseAuth *auth.Client
	JWTSecret    string
	Logger       zerolog.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	handlers.RegisterHealthRoutes(e)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	postRepo := repositories.NewPostgresPostRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)

	// Notification writer shared by every handler that produces activity
	notifier := notifications.NewWriter(notificationRepo, followRepo, deps.Feed, deps.Logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.JWTSecret, deps.Logger)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	resolvers := []middleware.IdentityResolver{}
	if deps.FirebaseAuth != nil {
		resolvers = append(resolvers, middleware.NewFirebaseResolver(deps.FirebaseAuth, userRepo))
	}
	resolvers = append(resolvers, middleware.NewJWTResolver(deps.JWTSecret, userRepo))
	resolver := middleware.NewChainResolver(resolvers...)

	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(resolver))
	log.Println("Authentication middleware applied to /api/v1 group.")

	// User profile and directory routes
	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, notifier, deps.Logger)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, notifier, deps.Logger)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, postRepo, notifier)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Realtime notification feed
	realtimeHandler := handlers.NewRealtimeHandler(deps.Feed, notificationRepo, deps.Logger)
	realtimeHandler.RegisterRealtimeRoutes(api)
	log.Println("Realtime routes configured.")

	// --- Admin routes ---
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin())
	adminHandler := handlers.NewAdminHandler(userRepo, postRepo, deps.Logger)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}

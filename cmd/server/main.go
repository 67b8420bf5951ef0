package main

import (
	"context"
	"log"
	"os"

	"firebase.google.com/go/v4/auth"
	"github.com/Nagraj-13/SocialConnect/internal/changefeed"
	"github.com/Nagraj-13/SocialConnect/internal/router"
	"github.com/Nagraj-13/SocialConnect/pkg/config"
	"github.com/Nagraj-13/SocialConnect/pkg/firebase"
	"github.com/Nagraj-13/SocialConnect/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx := context.Background()

	// Initialize Firebase when credentials are configured; without them the
	// server still runs with local JWT authentication.
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set, Firebase login disabled.")
	}

	// Notification change feed: Redis across instances, in-process otherwise
	var feed changefeed.ChangeFeed
	if cfg.RedisAddr != "" {
		redisFeed, err := changefeed.NewRedisFeed(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			log.Fatalf("Failed to initialize Redis change feed: %v", err)
		}
		feed = redisFeed
	} else {
		log.Println("REDIS_ADDR not set, using in-process change feed.")
		feed = changefeed.NewMemoryFeed()
	}
	defer feed.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Deps{
		Postgres:     db.Postgres,
		Feed:         feed,
		FirebaseAuth: firebaseAuthClient,
		JWTSecret:    cfg.JWTSecret,
		Logger:       logger,
	})

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

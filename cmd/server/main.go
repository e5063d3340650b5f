package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/venuehub/venue-reservation/internal/booking"
	"github.com/venuehub/venue-reservation/internal/config"
	"github.com/venuehub/venue-reservation/internal/database"
	"github.com/venuehub/venue-reservation/internal/handler"
	"github.com/venuehub/venue-reservation/internal/middleware"
	"github.com/venuehub/venue-reservation/internal/queue"
	"github.com/venuehub/venue-reservation/internal/repository"
	"github.com/venuehub/venue-reservation/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	venueRepo := repository.NewVenueRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	newsRepo := repository.NewNewsRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	validator := booking.NewValidator(venueRepo, orderRepo)
	publisher := handler.AMQPPublisher{}

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(venueRepo, newsRepo, messageRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, validator, publisher)
	messageHandler := handler.NewMessageHandler(messageRepo)
	adminVenues := handler.NewAdminVenueHandler(venueRepo)
	adminNews := handler.NewAdminNewsHandler(newsRepo)
	adminUsers := handler.NewAdminUserHandler(cfg, userRepo)
	adminMessages := handler.NewAdminMessageHandler(messageRepo)
	adminOrders := handler.NewAdminOrderHandler(orderRepo, publisher)

	e := echo.New()
	// Resolve the session for every request; anonymous requests pass
	// through and are rejected by the handlers that need a principal.
	e.Use(middleware.Authenticate(cfg.JWTSecret))

	// Redis-backed cache and rate limiter for the public browse routes.
	// When Redis is unreachable both degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	publicMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, publicMW...)
	router.RegisterAuth(e, authHandler)
	router.RegisterUser(e, orderHandler, messageHandler)
	router.RegisterAdmin(e, adminVenues, adminNews, adminUsers, adminMessages, adminOrders)

	// Consume order events in the background; reconnects on failure.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/config"
	"github.com/campusworks/teacher-portal-api/internal/database"
	"github.com/campusworks/teacher-portal-api/internal/gateway"
	"github.com/campusworks/teacher-portal-api/internal/handler"
	"github.com/campusworks/teacher-portal-api/internal/middleware"
	"github.com/campusworks/teacher-portal-api/internal/navigation"
	"github.com/campusworks/teacher-portal-api/internal/router"
	"github.com/campusworks/teacher-portal-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	gw, err := gateway.New(gateway.Config{
		BackendBaseURL: cfg.BackendBaseURL,
		StudentBaseURL: cfg.StudentBaseURL,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create gateway client: %v", err)
	}

	progressService := service.NewProgressService(gw, logger)
	sessionService := service.NewSessionService(redisClient, cfg.JWTSecret, cfg.SessionTTL, logger)
	registry := navigation.NewRegistry(gw, progressService, logger)

	authHandler := handler.NewAuthHandler(gw, sessionService, registry, cfg.SessionTTL, logger)
	portalHandler := handler.NewPortalHandler(registry, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		PortalHandler:     portalHandler,
		SessionMiddleware: middleware.RequireSession(sessionService),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

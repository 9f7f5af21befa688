package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"modernblog/internal/app"
	"modernblog/internal/config"
	"modernblog/internal/repositories"
	"modernblog/internal/services"
	"modernblog/internal/session"
	"modernblog/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fiberApp, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires stores, services and the optional event broker into the HTTP
// app. cleanup releases every connection that was opened.
func NewApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Table store ---
	var (
		userRepo    repositories.UserRepository
		profileRepo repositories.ProfileRepository
		postRepo    repositories.PostRepository
	)
	switch cfg.DatabaseDriver {
	case "memory":
		log.Println("Using in-memory store, data is lost on restart")
		profiles := repositories.NewMockProfileRepository()
		userRepo = repositories.NewMockUserRepository()
		profileRepo = profiles
		postRepo = repositories.NewMockPostRepository(profiles)
	default:
		db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, func() {}, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		if err := repositories.AutoMigrate(db); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		profileRepo = repositories.NewGORMProfileRepository(db)
		postRepo = repositories.NewGORMPostRepository(db)
	}

	// --- Token blacklist ---
	var blacklist repositories.TokenBlacklist = repositories.NewMockTokenBlacklist()
	if cfg.RedisAddr != "" {
		redisBlacklist := repositories.NewRedisTokenBlacklist(repositories.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisBlacklist.Ping(ctx)
		cancel()
		if err != nil {
			redisBlacklist.Close()
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { redisBlacklist.Close() })
		blacklist = redisBlacklist
	}

	// --- Event broker ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closers = append(closers, func() { mqClient.Close() })
		publisher = mqClient

		if err := mqClient.Consume(logEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, profileRepo, blacklist, cfg.JWTSecret)
	authService.SetTokenDuration(cfg.TokenTTL)
	authService.SetEventPublisher(publisher)
	authService.Subscribe(sessionLogger(publisher))

	postService := services.NewPostService(postRepo, publisher)

	fiberApp := app.New(app.Deps{
		Auth:          authService,
		Posts:         postService,
		EventsEnabled: publisher != nil,
		RequestLog:    true,
	})
	return fiberApp, cleanup, nil
}

// sessionLogger logs every sign-in and sign-out and forwards it to the broker.
func sessionLogger(publisher services.EventPublisher) func(session.Event) {
	return func(ev session.Event) {
		log.Printf("Session %s for %q at %s", ev.Kind, ev.Session.UserID(), ev.At.Format(time.RFC3339))
		if publisher == nil {
			return
		}
		key := services.EventSessionSignedOut
		if ev.Kind == session.SignedIn {
			key = services.EventSessionSignedIn
		}
		if err := publisher.Publish(key, map[string]interface{}{"userID": ev.Session.UserID()}); err != nil {
			log.Printf("Warning: Failed to publish %s event: %v", key, err)
		}
	}
}

func logEvent(ev rabbitmq.Event) error {
	log.Printf("Received %s event (%s): %s", ev.Type, ev.OccurredAt.Format(time.RFC3339), string(ev.Payload))
	return nil
}

package main

// @title           Group Chat Service API
// @version         1.0
// @description     Real-time group chat with live polls
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"group-chat-service/internal/api"
	"group-chat-service/internal/api/handlers"
	"group-chat-service/internal/archive"
	"group-chat-service/internal/chat"
	"group-chat-service/internal/config"
	"group-chat-service/internal/database"
	"group-chat-service/internal/hub"
	"group-chat-service/internal/poll"
	"group-chat-service/internal/router"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting group chat server")

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Cross-instance relay is optional; without Redis the hub fans out
	// to local subscribers only.
	var relay *hub.Relay
	if cfg.Redis.URL != "" {
		redisClient, err := database.NewRedisConnection(cfg.Redis.URL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		relay = hub.NewRelay(redisClient)
	}

	broadcaster := hub.New(relay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	pollService := poll.NewService(poll.NewRepository(db))
	chatService := chat.NewService(chat.NewRepository(db))

	var archiver router.Archiver
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaArchiver, err := archive.NewKafkaArchiver(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Error("Failed to connect to Kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaArchiver.Close()
		archiver = kafkaArchiver
	}

	eventRouter := router.New(pollService, chatService, broadcaster, archiver)

	apiRouter := api.NewRouter(
		cfg.JWT.Secret,
		handlers.NewPollHandler(pollService),
		handlers.NewChatHandler(chatService),
		handlers.NewWSHandler(broadcaster, eventRouter),
	)
	apiRouter.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

package main

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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/linguahub/crm-service/internal/config"
	"github.com/linguahub/crm-service/internal/events"
	"github.com/linguahub/crm-service/internal/handlers"
	"github.com/linguahub/crm-service/internal/repositories/postgres"
	"github.com/linguahub/crm-service/internal/services"
	"github.com/linguahub/crm-service/internal/utils"
	"github.com/linguahub/crm-service/internal/validator"
	"github.com/linguahub/crm-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Event bus: in-process unless Kafka brokers are configured. The
	// in-process bus doubles as the subscriber for the notification
	// dispatcher.
	var publisher events.EventPublisher
	var dispatcher *services.NotificationDispatcher

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create Kafka publisher: %v", err)
		}
	} else {
		bus, busPublisher := events.NewGoChannelBus(slogLogger)
		publisher = busPublisher

		if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
			sender, err := services.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
			if err != nil {
				log.Printf("Warning: Failed to initialize Telegram sender: %v", err)
			} else {
				dispatcher = services.NewNotificationDispatcher(bus, sender, slogLogger)
			}
		}
	}

	v := validator.New()

	serviceManager := services.NewServiceManager(cfg, repoManager.GetRepository(), redisClient, publisher, slogLogger, v)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if dispatcher != nil {
		if err := dispatcher.Start(context.Background()); err != nil {
			log.Printf("Warning: Failed to start notification dispatcher: %v", err)
		}
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, cfg, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	logger.Info("Server exited")
}

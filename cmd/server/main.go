package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codequest-server/internal/ai"
	"codequest-server/internal/config"
	"codequest-server/internal/database"
	"codequest-server/internal/handler"
	"codequest-server/internal/logger"
	"codequest-server/internal/messaging"
	"codequest-server/internal/repository"
	"codequest-server/internal/service"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEnc})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Starting codequest-server", zap.String("logLevel", cfg.LogLevel))

	ctx := context.Background()

	// PostgreSQL
	dbPool, err := database.NewPool(ctx, cfg.GetDSN(), zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()
	if err := database.Migrate(dbPool, zapLogger); err != nil {
		zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The leaderboard mirror degrades gracefully, so a missing Redis
		// is a warning, not a startup failure.
		zapLogger.Warn("Redis unavailable, leaderboard will fall back to PostgreSQL", zap.Error(err))
	}

	// RabbitMQ (optional)
	var publisher messaging.EventPublisher = messaging.NopEventPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitConn.Close()

		publisher, err = messaging.NewRabbitMQEventPublisher(rabbitConn, cfg.ProgressionEventQueue, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		zapLogger.Info("Connected to RabbitMQ", zap.String("queue", cfg.ProgressionEventQueue))
	} else {
		zapLogger.Info("RabbitMQ URL not set, progression events disabled")
	}

	// AI backend
	aiClient, err := ai.NewClient(ai.Config{
		ClientType: cfg.AIClientType,
		APIKey:     cfg.AIAPIKey,
		BaseURL:    cfg.AIBaseURL,
		Model:      cfg.AIModel,
		Timeout:    cfg.AITimeout,
		MaxRetries: cfg.AIMaxRetries,
	})
	if err != nil {
		zapLogger.Fatal("Failed to create AI client", zap.Error(err))
	}

	// Repositories
	analysisRepo := repository.NewPgTopicAnalysisRepository(dbPool, zapLogger)
	profileRepo := repository.NewPgPlayerProfileRepository(dbPool, zapLogger)
	masteryRepo := repository.NewPgTopicMasteryRepository(dbPool, zapLogger)
	journeyRepo := repository.NewPgUserJourneyRepository(dbPool, zapLogger)
	tutorRepo := repository.NewPgTutorInteractionRepository(dbPool, zapLogger)
	leaderboardRepo := repository.NewRedisLeaderboardRepository(redisClient, zapLogger)

	// Services
	analysisService := service.NewAnalysisService(analysisRepo, aiClient, zapLogger)
	arenaService := service.NewArenaService(aiClient, zapLogger)
	progressionService := service.NewProgressionService(profileRepo, masteryRepo, leaderboardRepo, publisher, zapLogger)
	journeyService := service.NewJourneyService(journeyRepo, arenaService, progressionService, publisher, zapLogger)
	tutorService := service.NewTutorService(tutorRepo, aiClient, zapLogger)

	// HTTP
	h := handler.New(analysisService, arenaService, progressionService, journeyService, tutorService, zapLogger)
	router := h.Router(cfg.JWTSecret, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // AI-backed endpoints can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

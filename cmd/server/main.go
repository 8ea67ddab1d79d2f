package main

import (
	"context"
	"net/http"

	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/flash"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/handler"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/render"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/http/router"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/messaging/nats"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/repository/cache"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/repository/mongodb"
	"github.com/mohit-lanjewar/WanderLust/internal/adapter/storage/s3"
	"github.com/mohit-lanjewar/WanderLust/internal/config"
	"github.com/mohit-lanjewar/WanderLust/internal/listing/usecase"
	"github.com/mohit-lanjewar/WanderLust/internal/mailer"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/logger"
	"github.com/mohit-lanjewar/WanderLust/internal/platform/metrics"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDB)

	listingRepo := mongodb.NewListingRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.String("address", cfg.RedisAddress), zap.Error(err))
	}
	listingCache := cache.NewListingCache(redisClient)
	flashStore := flash.NewStore(redisClient)

	storageClient, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.String("url", cfg.NATSURL), zap.Error(err))
	}
	defer natsPublisher.Close()

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	listingUsecase := usecase.NewListingUsecase(listingRepo, reviewRepo, userRepo, listingCache, natsPublisher, smtpMailer, log)

	renderer, err := render.NewTemplateRenderer()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	metricsManager := metrics.NewMetricsManager("wanderlust")
	go func() {
		if err := metrics.StartMetricsServer(cfg.MetricsPort, log, metricsManager.Registry); err != nil {
			log.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	listingHandler := handler.NewListingHandler(listingUsecase, storageClient, flashStore, renderer, metricsManager, log)
	mux := router.New(listingHandler, cfg.JWTSecret, log, metricsManager)

	log.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, mux); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}

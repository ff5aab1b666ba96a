// main.go
package main

import (
	"context"
	"log"
	"time"

	"cinema-ticketing/cmd"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/internal/wire"
	"cinema-ticketing/pkg/broker"
	"cinema-ticketing/pkg/cache"
	"cinema-ticketing/pkg/database"
	"cinema-ticketing/pkg/metrics"
	"cinema-ticketing/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("claim_policy", config.Reservation.ClaimPolicy),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.RunMigrations(migrateCtx, db, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Seat-map cache, disabled when REDIS_ADDR is empty
	redisClient, err := cache.NewRedisClient(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	// Domain events, disabled when AMQP_URL is empty
	var publisher broker.Publisher = broker.NopPublisher{}
	if config.AMQP.URL != "" {
		amqpPublisher, err := broker.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
		logger.Info("Message broker connected", zap.String("queue", config.AMQP.Queue))
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	infra := usecase.Infra{
		SeatMap:   cache.NewSeatMapCache(redisClient, config.Redis.SeatMapTTL, logger),
		Publisher: publisher,
		Metrics:   metrics.New(registry),
	}

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, infra, registry, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if config.Admin.Email != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := app.Service.Auth.EnsureAdmin(seedCtx, config.Admin.Email, config.Admin.Password)
		cancel()
		if err != nil {
			logger.Fatal("Failed to seed admin account", zap.Error(err))
		}
		if created {
			logger.Info("Admin account seeded", zap.String("email", config.Admin.Email))
		}
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/internal/config"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	rentalEvents "github.com/ryderx/service-rental/internal/events"
	"github.com/ryderx/service-rental/internal/handler"
	"github.com/ryderx/service-rental/internal/metrics"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/database"
	"github.com/ryderx/service-rental/pkg/health"
	"github.com/ryderx/service-rental/pkg/kafka"
	"github.com/ryderx/service-rental/pkg/logger"
	"github.com/ryderx/service-rental/pkg/middleware"
	"github.com/ryderx/service-rental/pkg/ratelimit"
	"github.com/ryderx/service-rental/pkg/tracing"
)

const serviceName = "service-rental"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.TracingConfig.Endpoint, serviceName, cfg.AppEnv)
	if err != nil {
		log.Fatal("failed to init tracing", zap.Error(err))
	}

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL, cfg.JWTConfig.RefreshTTL)

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Rate limiter: Redis when configured so every replica shares one budget.
	var limiter ratelimit.Limiter
	if cfg.RedisConfig.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = rdb.Close() }()
		limiter = ratelimit.NewRedisLimiter(rdb, "rental:ratelimit", cfg.RateLimitConfig.RequestsPerMinute, time.Minute)
	} else {
		limiter = ratelimit.NewLocalLimiter(cfg.RateLimitConfig.RequestsPerMinute, cfg.RateLimitConfig.Burst)
	}
	limit := middleware.RateLimitMiddleware(limiter, log)

	// Application services
	store := repository.NewGormStore(db)
	pricing := reservation.NewStandardPricingStrategy(nil)
	guard := application.NewAvailabilityGuard(log)
	recorder := application.NewHistoryRecorder()
	queries := application.NewReservationQueryService(store, log)
	reservationService := application.NewReservationService(store, pricing, guard, recorder, queries, kafkaProducer, log)
	paymentService := application.NewPaymentService(store, pricing, kafkaProducer, log)
	historyService := application.NewHistoryService(store, recorder, log)
	carService := application.NewCarService(store, log)
	locationService := application.NewLocationService(store, log)
	authService := application.NewAuthService(store, jwtManager, cfg.BcryptCost, log)

	// Payment event consumer
	groupID := cfg.KafkaConfig.GroupPrefix + "rental-service"
	paymentConsumer := rentalEvents.NewPaymentEventConsumer(cfg.KafkaConfig.Brokers, groupID, paymentService, log)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	metrics.Register()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	health.NewHandler(sqlDB, serviceName).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := &router.RouterGroup
	handler.NewAuthHandler(authService).RegisterRoutes(api, jwtManager, limit)
	handler.NewReservationHandler(reservationService, queries).RegisterRoutes(api, jwtManager, limit)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(api, jwtManager)
	handler.NewCarHandler(carService).RegisterRoutes(api, jwtManager)
	handler.NewLocationHandler(locationService).RegisterRoutes(api, jwtManager)
	handler.NewHistoryHandler(historyService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(queries, authService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("failed to flush traces", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

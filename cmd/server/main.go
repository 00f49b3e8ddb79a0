package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seller-onboarding.backend/internal/config"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/internal/infrastructure/assets"
	"seller-onboarding.backend/internal/infrastructure/events"
	"seller-onboarding.backend/internal/infrastructure/gateway"
	"seller-onboarding.backend/internal/infrastructure/metrics"
	"seller-onboarding.backend/internal/infrastructure/models"
	infrarepos "seller-onboarding.backend/internal/infrastructure/repositories"
	"seller-onboarding.backend/internal/interfaces/http/handlers"
	"seller-onboarding.backend/internal/interfaces/http/middleware"
	"seller-onboarding.backend/internal/usecases"
	"seller-onboarding.backend/pkg/jwt"
	"seller-onboarding.backend/pkg/logger"
	"seller-onboarding.backend/pkg/redis"
)

type eventPublisher interface {
	repositories.EventPublisher
	Close() error
}

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	getStdDB     = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	newPublisher = func(cfg config.RabbitMQConfig) (eventPublisher, error) {
		if cfg.URL == "" {
			return events.NoopPublisher{}, nil
		}
		return events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	}
	newUploader = func(cfg config.CloudinaryConfig) (repositories.AssetUploader, error) {
		if cfg.URL == "" {
			return assets.DisabledUploader{}, nil
		}
		return assets.NewCloudinaryUploader(cfg.URL, cfg.Folder)
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(ctx, "Redis initialized")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, store selection endpoints will fail", zap.Error(err))
	} else if err := db.AutoMigrate(&models.ActiveStore{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m := metrics.New()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	draftRepo, err := infrarepos.NewDraftRepository(redis.GetClient(), cfg.Security.DraftEncryptionSecret, cfg.Onboarding.DraftTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize draft storage: %w", err)
	}
	activeStoreRepo := infrarepos.NewActiveStoreRepository(db)
	marketplace := gateway.NewHTTPGateway(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, m)

	uploader, err := newUploader(cfg.Cloudinary)
	if err != nil {
		return fmt.Errorf("failed to initialize asset uploader: %w", err)
	}
	publisher, err := newPublisher(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer publisher.Close()

	onboardingUsecase := usecases.NewOnboardingUsecase(
		draftRepo, activeStoreRepo, marketplace, uploader, publisher, m, cfg.Onboarding.MaxLogoSize,
	)
	verificationUsecase := usecases.NewVerificationUsecase(draftRepo, marketplace)
	sessionUsecase := usecases.NewSessionUsecase(draftRepo, activeStoreRepo)
	storeUsecase := usecases.NewStoreUsecase(activeStoreRepo)

	otpLimiter := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		otpLimiter = middleware.RateLimitMiddleware(cfg.RateLimit.OTPRate, cfg.RateLimit.OTPBurst)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	registerAPIV1Routes(r, routeDeps{
		onboardingHandler:   handlers.NewOnboardingHandler(onboardingUsecase, sessionUsecase, cfg.Onboarding.MaxLogoSize),
		verificationHandler: handlers.NewVerificationHandler(verificationUsecase, sessionUsecase),
		storeHandler:        handlers.NewStoreHandler(storeUsecase),
		authMiddleware:      middleware.AuthMiddleware(jwtService),
		submissionGuard:     middleware.SubmissionGuard(cfg.Onboarding.LockTTL),
		otpLimiter:          otpLimiter,
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Onboarding.LockTTL)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "Seller onboarding backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

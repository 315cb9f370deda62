package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gocongress/prizes-sub001/config"
	"github.com/gocongress/prizes-sub001/db"
	"github.com/gocongress/prizes-sub001/handlers"
	"github.com/gocongress/prizes-sub001/middleware"
	"github.com/gocongress/prizes-sub001/realtime"
	"github.com/gocongress/prizes-sub001/repositories"
	"github.com/gocongress/prizes-sub001/routes"
	"github.com/gocongress/prizes-sub001/services"
	"github.com/gocongress/prizes-sub001/storage"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация хранилища экспортов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	prizeRepo := repositories.NewPostgresPrizeRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	awardRepo := repositories.NewPostgresAwardRepository(dbConn)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, playerRepo)
	playerService := services.NewPlayerService(playerRepo)
	prizeService := services.NewPrizeService(prizeRepo)
	eventService := services.NewEventService(eventRepo)
	awardService := services.NewAwardService(awardRepo, prizeRepo, eventRepo)
	preferenceService := services.NewPreferenceService(
		dbConn,
		preferenceRepo,
		awardRepo,
		playerRepo,
		resultRepo,
		wsHub,
		logger,
	)
	allocationService := services.NewAllocationService(
		dbConn,
		resultRepo,
		awardRepo,
		preferenceRepo,
		playerRepo,
		wsHub,
		logger,
	)
	resultService := services.NewResultService(dbConn, resultRepo, eventRepo, awardRepo)
	exportService := services.NewExportService(resultRepo, awardRepo, playerRepo, cloudflareUploader, logger)
	registrationService := services.NewRegistrationService(dbConn, playerRepo, cfg.WebhookSecret, logger)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	playerHandler := handlers.NewPlayerHandler(playerService)
	prizeHandler := handlers.NewPrizeHandler(prizeService)
	eventHandler := handlers.NewEventHandler(eventService, awardService)
	awardHandler := handlers.NewAwardHandler(awardService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService, playerService, awardService)
	resultHandler := handlers.NewResultHandler(resultService, allocationService, exportService)
	webhookHandler := handlers.NewWebhookHandler(registrationService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Dependencies{
		AuthHandler:        authHandler,
		PlayerHandler:      playerHandler,
		PrizeHandler:       prizeHandler,
		EventHandler:       eventHandler,
		AwardHandler:       awardHandler,
		PreferenceHandler:  preferenceHandler,
		ResultHandler:      resultHandler,
		WebhookHandler:     webhookHandler,
		WebSocketHandler:   webSocketHandler,
		Authenticator:      middleware.NewAuthenticator(cfg.JWTSecretKey),
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		ResponseCache:      middleware.NewResponseCache(15 * time.Second),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/config"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/database"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/handler"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/middleware"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/router"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.GatePass{},
		&models.ParentVerification{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	gatePassRepo := repository.NewGatePassRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	identityService := service.NewIdentityService(userRepo)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, "gatepass", natsConn, logger)
	verificationService := service.NewVerificationService(verificationRepo, logger)
	gatePassService := service.NewGatePassService(gatePassRepo, studentRepo, userRepo, verificationService, notificationService, validate, logger)
	overdueService := service.NewOverdueService(gatePassRepo, notificationRepo, userRepo, notificationService, logger)
	dashboardService := service.NewDashboardService(gatePassRepo, studentRepo, userRepo, notificationRepo, overdueService, redisClient, cfg.DashboardCacheTTL, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	seedService := service.NewSeedService(userRepo, studentRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	rootCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	notificationService.Start(rootCtx)

	gatePassHandler := handler.NewGatePassHandler(gatePassService, identityService, logger)
	verificationHandler := handler.NewVerificationHandler(verificationService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.NotificationKeepAlive)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, identityService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	overdueHandler := handler.NewOverdueHandler(overdueService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GatePassHandler:     gatePassHandler,
		VerificationHandler: verificationHandler,
		NotificationHandler: notificationHandler,
		DashboardHandler:    dashboardHandler,
		ActivityHandler:     activityHandler,
		OverdueHandler:      overdueHandler,
		SeedHandler:         seedHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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

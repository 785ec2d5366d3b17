package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/storage"
	"github.com/spec-kit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	fileStore, err := storage.NewLocalFileStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	updateRepo := repository.NewComplaintUpdateRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userNotificationRepo := repository.NewUserNotificationRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewMailer(cfg.Mail, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	numbers := service.NewNumberGenerator(complaintRepo)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		UpdateRepo:     updateRepo,
		UserRepo:       userRepo,
		AttachmentRepo: attachmentRepo,
		FileStore:      fileStore,
		Numbers:        numbers,
		Dispatcher:     dispatcher,
	})
	escalationService := service.NewEscalationService(complaintRepo, updateRepo, dispatcher, logger, cfg.Escalation.Workers)
	resetService := service.NewResetService(complaintRepo, updateRepo, notificationRepo, attachmentRepo, fileStore, logger)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher:           dispatcher,
		NotificationRepo:     notificationRepo,
		UserNotificationRepo: userNotificationRepo,
		UserRepo:             userRepo,
		Mailer:               mailer,
		Cache:                redis.ClientHandle(),
	}, logger)

	worker.StartNotificationWorker(notificationService)
	escalationWorker := worker.NewEscalationWorker(escalationService, metrics, cfg.Escalation.SweepInterval(), logger)
	escalationWorker.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Admin:          handlers.NewAdminHandler(complaintService, escalationService, resetService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

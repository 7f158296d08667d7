package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-schedule/config"
	deliveryHttp "clinic-schedule/internal/delivery/http"
	"clinic-schedule/internal/delivery/http/handler"
	"clinic-schedule/internal/delivery/http/middleware"
	"clinic-schedule/internal/infrastructure/cache"
	"clinic-schedule/internal/infrastructure/database"
	"clinic-schedule/internal/infrastructure/metrics"
	"clinic-schedule/internal/repository"
	"clinic-schedule/internal/service"
	"clinic-schedule/internal/usecase"
	"clinic-schedule/pkg/jwt"
	"clinic-schedule/pkg/validator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Locker      *service.ClinicLocker
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Locker = service.NewClinicLocker(logrus.StandardLogger(), cfg.Schedule.LockCleanupInterval, cfg.Schedule.LockStaleThreshold)
	app.Server = initializeServer(cfg, db, redisClient, app.Locker)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, locker *service.ClinicLocker) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	appMetrics := metrics.New()
	log := logrus.StandardLogger()

	// Initialize repositories
	clinicRepo := repository.NewClinicRepository()
	roomRepo := repository.NewRoomRepository()
	scheduleRepo := repository.NewScheduleRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	snapshotCache := service.NewSnapshotCache(redisClient, locker, log, cfg.Schedule.SnapshotTTL)
	roomCatalog := service.NewRoomCatalog(db, roomRepo)

	// Initialize usecases
	clinicUsecase := usecase.NewClinicUsecase(db, log, uuid.New, clinicRepo, roomRepo, auditService, locker, snapshotCache)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, clinicRepo, scheduleRepo, roomCatalog, auditService, locker, snapshotCache, appMetrics)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, clinicRepo, auditLogRepo)

	// Initialize handlers
	clinicHandler := handler.NewClinicHandler(clinicUsecase, customValidator)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowOrigin)

	router := deliveryHttp.NewRouter(clinicHandler, scheduleHandler, auditLogHandler, authMiddleware, corsMiddleware, appMetrics.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background work and closes all connections
func (app *App) Close() {
	if app.Locker != nil {
		app.Locker.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

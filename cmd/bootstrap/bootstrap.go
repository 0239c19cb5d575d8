package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthmon-backend/config"
	deliveryHttp "healthmon-backend/internal/delivery/http"
	"healthmon-backend/internal/delivery/http/handler"
	"healthmon-backend/internal/delivery/http/middleware"
	"healthmon-backend/internal/delivery/telegram"
	"healthmon-backend/internal/infrastructure/cache"
	"healthmon-backend/internal/infrastructure/database"
	"healthmon-backend/internal/infrastructure/sheets"
	"healthmon-backend/internal/repository"
	"healthmon-backend/internal/service"
	"healthmon-backend/internal/usecase"
	"healthmon-backend/pkg/jwt"
	"healthmon-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Bot         *telegram.Bot
	Scheduler   *service.SyncScheduler

	log          *logrus.Logger
	rateLimiters []*middleware.RateLimiter
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	app.log = SetupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	app.log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(database.MigrationURL(cfg.DB)); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.log.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initialize(context.Background()); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger() *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	return logrus.StandardLogger()
}

// NewSheetSync builds the sheet reconciliation job. It returns
// sheets.ErrNotConfigured when no spreadsheet is set up.
func NewSheetSync(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logrus.Logger) (*service.SheetSyncService, error) {
	client, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, err
	}

	return service.NewSheetSyncService(
		db,
		log,
		client,
		repository.NewPatientRepository(),
		repository.NewCheckupRepository(),
		repository.NewAlertRepository(),
		repository.NewVitaminRepository(),
		repository.NewImmunizationRepository(),
		repository.NewMilestoneRepository(),
	), nil
}

func (app *App) initialize(ctx context.Context) error {
	cfg, db, log := app.Config, app.DB, app.log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	checkupRepo := repository.NewCheckupRepository()
	vitaminRepo := repository.NewVitaminRepository()
	alertRepo := repository.NewAlertRepository()

	// Registration sessions
	var sessions service.SessionStore
	switch cfg.Session.Store {
	case "memory":
		sessions = service.NewMemorySessionStore(cfg.Session.TTL)
	default:
		sessions = service.NewRedisSessionStore(app.RedisClient, cfg.Session.TTL)
	}
	log.Infof("Registration sessions stored in %s (ttl %s)", cfg.Session.Store, cfg.Session.TTL)

	// Initialize usecases
	authUsecase, err := usecase.NewAuthUsecase(log, cfg.Admin, jwtService, app.RedisClient)
	if err != nil {
		return fmt.Errorf("failed to init admin auth: %w", err)
	}
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, checkupRepo)
	checkupUsecase := usecase.NewCheckupUsecase(db, log, patientRepo, checkupRepo)
	vitaminUsecase := usecase.NewVitaminUsecase(db, log, patientRepo, vitaminRepo)
	alertUsecase := usecase.NewAlertUsecase(db, log, patientRepo, alertRepo)
	reportUsecase := usecase.NewReportUsecase(db, log, patientRepo)
	registrationUsecase := usecase.NewRegistrationUsecase(log, sessions, patientUsecase)

	// Sheet sync is optional
	var syncTrigger handler.SyncTrigger
	sheetSync, err := NewSheetSync(ctx, cfg, db, log)
	switch {
	case errors.Is(err, sheets.ErrNotConfigured):
		log.Info("Google Sheets sync disabled: no spreadsheet configured")
	case err != nil:
		log.Warnf("Google Sheets sync disabled: %+v", err)
	default:
		app.Scheduler = service.NewSyncScheduler(sheetSync, log, cfg.Sync.Interval)
		syncTrigger = app.Scheduler
	}

	// Telegram bot is optional
	commandHandler := telegram.NewCommandHandler(log, registrationUsecase, patientUsecase, checkupUsecase, vitaminUsecase)
	bot, err := telegram.NewBot(cfg.Telegram, commandHandler, log)
	switch {
	case errors.Is(err, telegram.ErrNotConfigured):
		log.Info("Telegram bot disabled: no token configured")
	case err != nil:
		log.Warnf("Telegram bot disabled: %+v", err)
	default:
		app.Bot = bot
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	recordHandler := handler.NewRecordHandler(checkupUsecase, vitaminUsecase, alertUsecase, customValidator)
	reportHandler := handler.NewReportHandler(reportUsecase)
	syncHandler := handler.NewSyncHandler(syncTrigger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(
		rate.Limit(cfg.RateLimit.RequestsPerSecond),
		cfg.RateLimit.Burst,
		"Too many requests, please try again later",
	)
	loginRateLimiter := middleware.NewLoginRateLimiter(cfg.RateLimit.LoginPerMinute)
	app.rateLimiters = []*middleware.RateLimiter{rateLimiter, loginRateLimiter}

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		recordHandler,
		reportHandler,
		syncHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		rateLimiter,
		loginRateLimiter,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the HTTP server, the bot and the sync scheduler, and blocks
// until an interrupt signal has shut them down.
func (app *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg conc.WaitGroup

	wg.Go(func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.log.Fatalf("Failed to start server: %v", err)
		}
	})

	if app.Bot != nil {
		wg.Go(func() {
			if err := app.Bot.Run(ctx); err != nil {
				app.log.Errorf("Telegram bot stopped: %+v", err)
			}
		})
	}

	if app.Scheduler != nil {
		app.Scheduler.Start(ctx)
	}

	<-ctx.Done()
	app.shutdown()

	if recovered := wg.WaitAndRecover(); recovered != nil {
		app.log.Errorf("Background task panicked: %s", recovered.String())
	}

	app.Close()
	app.log.Info("Server shutdown complete")
}

// shutdown stops accepting work and waits for in-flight requests and syncs.
func (app *App) shutdown() {
	app.log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}

	for _, limiter := range app.rateLimiters {
		limiter.Stop()
	}
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

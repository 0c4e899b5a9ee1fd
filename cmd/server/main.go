package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"github.com/fadilmartias/recruit-scheduler/internal/domain/fiber/handler"
	"github.com/fadilmartias/recruit-scheduler/internal/mailtemplate"
	"github.com/fadilmartias/recruit-scheduler/internal/middleware"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/poller"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/service"
	"github.com/fadilmartias/recruit-scheduler/internal/token"
	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", slog.Any("error", err))
	}

	appConfig := config.LoadAppConfig()
	setupLogger(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func setupLogger(appConfig *config.AppConfig) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if appConfig.IsProduction() {
		opts.Level = slog.LevelInfo
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h).With(slog.String("app", appConfig.Name)))
}

func run(ctx context.Context, appConfig *config.AppConfig) error {
	schedConfig := config.LoadSchedulingConfig()
	calConfig := config.LoadCalendarConfig()

	db, err := ConnectDB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	defer sqlDB.Close()

	signer, err := token.NewSigner(appConfig.TokenSecret)
	if err != nil {
		return fmt.Errorf("TOKEN_SECRET: %w", err)
	}
	templates, err := mailtemplate.New()
	if err != nil {
		return err
	}

	// external services
	openRouter := service.NewOpenRouterService()
	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		return err
	}
	mailer := service.NewSMTPMailService()
	var calendar service.CalendarServiceInterface
	if cal, err := service.NewGoogleCalendarService(ctx, schedConfig.TimeZone); err != nil {
		slog.Warn("google calendar unavailable, slots ignore busy time and booking is disabled", slog.Any("error", err))
	} else {
		calendar = cal
	}

	jobRepo := repository.NewJobRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	outreachRepo := repository.NewOutreachRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	composer := usecase.NewMailComposer(templates, signer, appConfig.BaseURL, appConfig.CompanyName, schedConfig.Location)
	slots := usecase.NewSlotGenerator(calendar, schedConfig.SlotDuration, schedConfig.Location)
	scheduling := usecase.NewSchedulingUsecase(outreachRepo, interviewRepo, feedbackRepo, slots, calendar, mailer, composer, signer,
		usecase.SchedulingOptions{
			CalendarID:         calConfig.CalendarID,
			Location:           schedConfig.Location,
			InterviewerEmail:   schedConfig.InterviewerEmail,
			HRInterviewerEmail: schedConfig.HRInterviewerEmail,
			SlotCount:          schedConfig.ProposedSlotCount,
			MaxPerDay:          schedConfig.MaxInterviewsPerDay,
			LookaheadDays:      schedConfig.LookaheadDays,
			FeedbackFormLink:   schedConfig.FeedbackFormLink,
			HRFeedbackFormLink: schedConfig.HRFeedbackFormLink,
		})
	outreach := usecase.NewOutreachUsecase(outreachRepo, jobRepo, resumeRepo, scheduling, mailer, composer, signer)
	feedback := usecase.NewFeedbackUsecase(interviewRepo, feedbackRepo, scheduling, mailer, composer, schedConfig.FeedbackDelay)
	ingestion := usecase.NewIngestionUsecase(jobRepo, resumeRepo, openRouter, gemini)
	match := usecase.NewMatchUsecase(jobRepo, resumeRepo)
	dashboard := usecase.NewDashboardUsecase(interviewRepo, schedConfig.Location)

	feedbackPoller := poller.NewFeedbackPoller(feedback, schedConfig.PollInterval)

	app := newApp(appConfig, func() bool {
		return feedbackPoller.Healthy() && sqlDB.PingContext(ctx) == nil
	})
	admin := middleware.AdminAuth(appConfig.AdminSecret)
	pages := handler.NewPages(templates, appConfig.CompanyName)

	handler.NewIngestionHandler(ingestion, appConfig.UploadDir).RegisterRoutes(app, admin)
	handler.NewMatchHandler(match).RegisterRoutes(app, admin)
	handler.NewOutreachHandler(outreach, pages).RegisterRoutes(app, admin)
	handler.NewInterviewHandler(scheduling, pages, composer.FormatTime).RegisterRoutes(app, admin)
	handler.NewFeedbackHandler(feedback, scheduling, pages).RegisterRoutes(app, admin)
	handler.NewDashboardHandler(dashboard).RegisterRoutes(app, admin)
	app.Get("/poller/status", admin, func(c *fiber.Ctx) error {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "Feedback poller status",
			Data:    feedbackPoller.Stats(),
		})
	})
	app.Get("/embeddings/status", admin, func(c *fiber.Ctx) error {
		errs, open := gemini.CircuitBreakerStatus()
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "Embedding service status",
			Data:    fiber.Map{"consecutive_errors": errs, "circuit_open": open},
		})
	})

	feedbackPoller.Start(ctx)
	defer feedbackPoller.Stop()

	if !appConfig.IsProduction() {
		go logRuntime(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", slog.String("port", appConfig.Port))
		errCh <- app.Listen(appConfig.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func newApp(appConfig *config.AppConfig, ready func() bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: 60 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", slog.String("path", ctx.Path()), slog.Any("error", err))
			}
			message := err.Error()
			if message == "" || code >= fiber.StatusInternalServerError {
				message = "Internal Server Error"
			}
			return util.ErrorResponse(ctx, util.ErrorResponseFormat{Code: code, Message: message}, err)
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.AdminHeader,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return ready()
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	return app
}

func logRuntime(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			slog.Debug("runtime", slog.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}

// activeRoundIndex backs the per-round scheduling guard. AutoMigrate cannot
// express partial indexes.
const activeRoundIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_interviews_active_outreach_round
	ON interview_schedules (outreach_id, interview_round)
	WHERE status <> 'cancelled' AND status <> 'declined'`

func ConnectDB() (*gorm.DB, error) {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	for _, ext := range []string{"vector", "uuid-ossp"} {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "` + ext + `"`).Error; err != nil {
			return nil, fmt.Errorf("create extension %s: %w", ext, err)
		}
	}
	if err := db.AutoMigrate(&model.Job{}, &model.Resume{}, &model.Outreach{}, &model.Interview{}, &model.Feedback{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	if err := db.Exec(activeRoundIndex).Error; err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return db, nil
}

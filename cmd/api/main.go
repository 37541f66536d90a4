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
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/config"
	"github.com/ignite-fest/jury-api/internal/database"
	"github.com/ignite-fest/jury-api/internal/handler"
	"github.com/ignite-fest/jury-api/internal/middleware"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
	"github.com/ignite-fest/jury-api/internal/router"
	"github.com/ignite-fest/jury-api/internal/service"
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
		&models.Entry{},
		&models.Juror{},
		&models.RubricQuestion{},
		&models.JuryAssignment{},
		&models.Evaluation{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	entryRepo := repository.NewEntryRepository(db)
	jurorRepo := repository.NewJurorRepository(db)
	questionRepo := repository.NewRubricQuestionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	events := service.NewNATSEventPublisher(natsConn, cfg.EventSubjectBase, logger)
	scoreboardService := service.NewScoreboardService(entryRepo, evaluationRepo, redisClient, cfg.ScoreboardTTL, logger)

	rubricService := service.NewRubricService(questionRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, jurorRepo, entryRepo, validate, activityService, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, assignmentRepo, questionRepo, validate, activityService, events, scoreboardService, logger)
	adminReviewService := service.NewAdminReviewService(evaluationRepo, validate, activityService, events, scoreboardService, logger)
	seedService := service.NewSeedService(entryRepo, jurorRepo, questionRepo, validate, cfg.SeedEnabled, cfg.SeedToken, logger)

	rubricHandler := handler.NewRubricHandler(rubricService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	scoreboardHandler := handler.NewScoreboardHandler(scoreboardService, logger)
	adminReviewHandler := handler.NewAdminReviewHandler(adminReviewService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		RubricHandler:      rubricHandler,
		AssignmentHandler:  assignmentHandler,
		EvaluationHandler:  evaluationHandler,
		ScoreboardHandler:  scoreboardHandler,
		AdminReviewHandler: adminReviewHandler,
		ActivityHandler:    activityHandler,
		SeedHandler:        seedHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		SaveRateLimiter:    middleware.RateLimit("evaluation_save", cfg.SaveRateLimit, cfg.SaveRateWindow),
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

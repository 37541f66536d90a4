package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ignite-fest/jury-api/internal/config"
	"github.com/ignite-fest/jury-api/internal/handler"
	"github.com/ignite-fest/jury-api/internal/middleware"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RubricHandler      *handler.RubricHandler
	AssignmentHandler  *handler.AssignmentHandler
	EvaluationHandler  *handler.EvaluationHandler
	ScoreboardHandler  *handler.ScoreboardHandler
	AdminReviewHandler *handler.AdminReviewHandler
	ActivityHandler    *handler.ActivityHandler
	SeedHandler        *handler.SeedHandler
	JWTMiddleware      fiber.Handler
	SaveRateLimiter    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	authenticated := api.Group("", jwtMiddleware)

	// Rubric and scoreboard are readable by any authenticated juror.
	if deps.RubricHandler != nil {
		deps.RubricHandler.Register(authenticated.Group("/rubric"))
	}
	if deps.ScoreboardHandler != nil {
		deps.ScoreboardHandler.Register(authenticated)
	}

	// Juror-facing evaluation workflow.
	if deps.EvaluationHandler != nil {
		jury := authenticated.Group("/jury")
		deps.EvaluationHandler.Register(jury, deps.SaveRateLimiter)
	}

	// Admin surface.
	admin := authenticated.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	if deps.RubricHandler != nil {
		deps.RubricHandler.RegisterAdmin(admin.Group("/rubric"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(admin.Group("/assignments"))
	}
	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterAdmin(admin)
	}
	if deps.AdminReviewHandler != nil {
		deps.AdminReviewHandler.Register(admin)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin)
	}

	// Seeding authenticates with its own token, not a JWT.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api)
	}
}

package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CatalogHandler    *handler.CatalogHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	DashboardHandler  *handler.DashboardHandler
	GradesHandler     *handler.GradesHandler
	ProfileHandler    *handler.ProfileHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	learnerOnly := middleware.RequireRole(models.RoleLearner)
	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	operatorOnly := middleware.RequireRole(models.RoleOperator)

	// Instructor course management registers first so its static /mine
	// segment wins over the catalog's :id wildcard. Role guards are applied
	// per route: a group-level guard on a shared prefix would also run for
	// the other group's routes.
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses"), instructorOnly)
	}

	// Public catalog; viewer identity enriches the projection when present.
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/courses"))
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api.Group("/enrollments", learnerOnly))
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments")
		deps.AssignmentHandler.RegisterSweep(assignments, operatorOnly)
		deps.AssignmentHandler.Register(assignments, instructorOnly)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions")
		deps.SubmissionHandler.Register(submissions, learnerOnly)
		deps.SubmissionHandler.RegisterInstructor(submissions, instructorOnly)
	}

	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(api.Group("/grading", instructorOnly))
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard")
		dashboard.Get("/learner", learnerOnly, deps.DashboardHandler.Learner)
		dashboard.Get("/instructor", instructorOnly, deps.DashboardHandler.Instructor)
		dashboard.Get("/operator", operatorOnly, deps.DashboardHandler.Operator)
	}

	if deps.GradesHandler != nil {
		api.Get("/grades/learner", learnerOnly, deps.GradesHandler.Learner)
	}

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterOnboarding(api.Group("/onboarding", middleware.RateLimit("signup", 5, time.Minute)))
		deps.ProfileHandler.RegisterProfile(api.Group("/profile", middleware.RequireAuth()))
	}
}

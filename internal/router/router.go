package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gradebook-go-api/internal/config"
	"github.com/noah-isme/gradebook-go-api/internal/handler"
	"github.com/noah-isme/gradebook-go-api/internal/middleware"
	"github.com/noah-isme/gradebook-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TemplateHandler   *handler.TemplateHandler
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradebookHandler  *handler.GradebookHandler
	EnrollmentHandler *handler.EnrollmentHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	staffOnly := middleware.RequireRole("teacher", "admin")

	if deps.TemplateHandler != nil {
		templates := api.Group("/templates", jwtMiddleware, staffOnly)
		deps.TemplateHandler.Register(templates)
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses, staffOnly)

		if deps.AssignmentHandler != nil {
			assignments := courses.Group("/:courseID/assignments")
			deps.AssignmentHandler.Register(assignments, staffOnly)
		}

		if deps.GradebookHandler != nil {
			deps.GradebookHandler.Register(courses.Group("/:courseID"))
		}

		if deps.EnrollmentHandler != nil {
			enrollments := courses.Group("/:courseID/enrollments", staffOnly)
			deps.EnrollmentHandler.Register(enrollments)
		}
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.RegisterSelf(api.Group("/me", jwtMiddleware))
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions, staffOnly)
	}
}

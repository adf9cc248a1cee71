package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docverify/internal/http/middleware"
	"docverify/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate HTTP to service calls and hold no workflow state.
func RegisterRoutes(app *fiber.App, db *sql.DB, gatherer prometheus.Gatherer, svc service.VerificationService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Get("/students", ListStudents(svc))
	app.Post("/students/refresh", RefreshStudents(svc))

	sessions := app.Group("/sessions", middleware.NoStore())
	sessions.Post("/", CreateSession(svc))
	sessions.Get("/:id", GetSession(svc))
	sessions.Post("/:id/actions", DispatchAction(svc))
	sessions.Delete("/:id", CloseSession(svc))
}

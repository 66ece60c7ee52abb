package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/pos-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/pos-ticketing/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Templates      *handlers.TemplatesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/auth/staff/login", cfg.Staff.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole())
	tickets.Get("/open/count", cfg.Tickets.GetOpenTicketCount)
	tickets.Get("/open/ids", cfg.Tickets.GetOpenTicketIDs)
	tickets.Get("/open", cfg.Tickets.GetOpenTickets)
	tickets.Get("/", cfg.Tickets.GetFilteredTickets)
	tickets.Post("/", cfg.Tickets.SaveTicket)
	tickets.Post("/check-concurrency", cfg.Tickets.CheckConcurrency)
	tickets.Get("/:id", cfg.Tickets.OpenTicket)
	tickets.Get("/:id/orders", cfg.Tickets.GetOrders)

	templates := app.Group("/templates", cfg.AuthMiddleware.Handle, auth.RequireRole())
	templates.Get("/", cfg.Templates.List)
	templates.Get("/:id", cfg.Templates.Get)

	tagGroups := app.Group("/tag-groups", cfg.AuthMiddleware.Handle, auth.RequireRole())
	tagGroups.Post("/ticket/:id/tags", cfg.Tickets.SaveFreeTicketTag)
	tagGroups.Post("/order/:id/tags", cfg.Tickets.SaveFreeOrderTag)
}

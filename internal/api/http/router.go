package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles everything the route table needs.
type RouteConfig struct {
	Auth      *auth.AuthMiddleware
	Health    *handlers.HealthHandler
	AuthH     *handlers.AuthHandler
	Tickets   *handlers.TicketsHandler
	Agent     *handlers.AgentTicketsHandler
	Dashboard *handlers.DashboardHandler
	Vacations *handlers.VacationsHandler
}

// RegisterRoutes mounts the public and authenticated route groups.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.AuthH.Register)
	authGroup.Post("/login", cfg.AuthH.Login)
	authGroup.Post("/password/reset/request", cfg.AuthH.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.AuthH.ConfirmPasswordReset)

	protected := app.Group("", cfg.Auth.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", cfg.AuthH.ChangePassword)

	protected.Get("/dashboard", cfg.Dashboard.Dashboard)

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	// Registered ahead of the parameterized routes so "unassigned" is not
	// captured as a ticket code.
	tickets.Get("/unassigned", auth.RequireAgent(), cfg.Agent.ListUnassigned)
	tickets.Post("/:code/take", auth.RequireAgent(), cfg.Agent.TakeTicket)
	tickets.Post("/:code/decision", auth.RequireAgent(), cfg.Agent.DecideTicket)
	tickets.Post("/:code/comments", cfg.Tickets.AddComment)
	tickets.Get("/:code/attachments/:id", cfg.Tickets.DownloadAttachment)
	tickets.Get("/:year/:month/:day/:code", cfg.Tickets.GetTicket)
	tickets.Post("/:year/:month/:day/:code/attachments", cfg.Tickets.UploadAttachment)

	vacations := protected.Group("/vacations")
	vacations.Get("/", cfg.Vacations.ListVacations)
	vacations.Get("/:code", cfg.Vacations.GetVacation)
	vacations.Post("/:code", cfg.Vacations.SubmitDetails)
	vacations.Post("/:code/decision", auth.RequireAgent(), cfg.Vacations.DecideVacation)
}

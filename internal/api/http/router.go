package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("", cfg.Complaints.Create)
	complaints.Get("", auth.RequireAdmin(), cfg.Complaints.ListAll)
	complaints.Get("/my", cfg.Complaints.ListMine)
	complaints.Get("/assigned", auth.RequireStaff(), cfg.Complaints.ListAssigned)
	complaints.Post("/reset-data", auth.RequireAdmin(), cfg.Admin.ResetData)

	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id", auth.RequireAdmin(), cfg.Complaints.Edit)
	complaints.Delete("/:id", auth.RequireAdmin(), cfg.Complaints.Delete)
	complaints.Put("/:id/status", auth.RequireStaff(), cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/assign/:userID", auth.RequireAdmin(), cfg.Complaints.Assign)
	complaints.Get("/:id/timeline", cfg.Complaints.Timeline)
	complaints.Post("/:id/report-resolved", auth.RequireStaff(), cfg.Complaints.ReportResolved)
	complaints.Post("/:id/escalate", auth.RequireAdmin(), cfg.Admin.Escalate)
	complaints.Post("/:id/escalation-check", auth.RequireAdmin(), cfg.Admin.EscalationCheck)
	complaints.Post("/:id/attachments", cfg.Complaints.UploadAttachment)
	complaints.Get("/:id/attachments", cfg.Complaints.ListAttachments)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Put("/users/:id/promote", cfg.Users.PromoteToStaff)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	notifications.Get("", cfg.Notifications.ListAdmin)
	notifications.Get("/unread-count", cfg.Notifications.AdminUnreadCount)
	notifications.Put("/read-all", cfg.Notifications.MarkAllAdminRead)
	notifications.Put("/:id/read", cfg.Notifications.MarkAdminRead)

	userNotifications := app.Group("/user-notifications", cfg.AuthMiddleware.Handle)
	userNotifications.Get("", cfg.Notifications.ListForUser)
	userNotifications.Get("/unread-count", cfg.Notifications.UserUnreadCount)
	userNotifications.Put("/read-all", cfg.Notifications.MarkAllUserRead)
	userNotifications.Put("/:id/read", cfg.Notifications.MarkUserRead)
}

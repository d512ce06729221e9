// Package router wires handlers onto the Echo instance. Route groups
// mirror the access tiers: public browse, auth, authenticated and
// admin/staff.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/minhvt/bus-ticketing/internal/handler"
	"github.com/minhvt/bus-ticketing/internal/middleware"
	"github.com/minhvt/bus-ticketing/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Companies     *handler.CompanyHandler
	Buses         *handler.BusHandler
	Routes        *handler.RouteHandler
	Schedules     *handler.ScheduleHandler
	Reservations  *handler.ReservationHandler
	Payments      *handler.PaymentHandler
	Promotions    *handler.PromotionHandler
	Drivers       *handler.DriverHandler
	Reviews       *handler.ReviewHandler
	Notifications *handler.NotificationHandler
	GPS           *handler.GPSHandler
	Agents        *handler.AgentHandler
	Chats         *handler.ChatHandler
}

// Register mounts all routes. publicCache, when non-nil, is applied to
// the unauthenticated browse group only; authenticated responses are
// never cached.
func Register(e *echo.Echo, h Handlers, jwtSecret string, publicCache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// unauthenticated: signup, login, token refresh. Logout revokes
	// tokens of a known caller, so it alone carries the JWT middleware.
	auth := e.Group("/v1/auth")
	auth.POST("/signup", h.Users.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(jwtSecret))

	// public browse endpoints, cacheable
	pub := e.Group("/v1")
	if publicCache != nil {
		pub.Use(publicCache)
	}
	pub.GET("/companies", h.Companies.List)
	pub.GET("/companies/:id", h.Companies.Get)
	pub.GET("/companies/:id/buses", h.Buses.ListByCompany)
	pub.GET("/companies/:id/reviews", h.Reviews.ListByCompany)
	pub.GET("/routes", h.Routes.List)
	pub.GET("/routes/:id", h.Routes.Get)
	pub.GET("/routes/:id/stops", h.Routes.ListStops)
	pub.GET("/schedules", h.Schedules.List)
	pub.GET("/schedules/:id", h.Schedules.Get)
	pub.GET("/schedules/:id/seats", h.Schedules.ListSeats)
	pub.GET("/schedules/:id/reviews", h.Reviews.ListBySchedule)
	pub.GET("/promotions", h.Promotions.List)
	pub.GET("/buses/:id/track", h.GPS.Track)
	pub.GET("/buses/:id/location", h.GPS.Latest)

	// any authenticated user
	priv := e.Group("/v1")
	priv.Use(middleware.JWTAuth(jwtSecret))
	priv.GET("/users/current", h.Users.Current)
	priv.PATCH("/users/update-info", h.Users.UpdateInfo)
	priv.POST("/users/change-password", h.Users.ChangePassword)
	priv.GET("/users/:id", h.Users.GetUser)
	priv.DELETE("/users/:id", h.Users.DeactivateUser)

	priv.POST("/reservations", h.Reservations.Create)
	priv.GET("/reservations/my", h.Reservations.Mine)
	priv.GET("/reservations/:id", h.Reservations.Get)
	priv.POST("/reservations/:id/cancel", h.Reservations.Cancel)
	priv.GET("/reservations/:id/payments", h.Payments.ListByReservation)
	priv.POST("/payments", h.Payments.Create)
	priv.POST("/promotions/redeem", h.Promotions.Redeem)
	priv.POST("/reviews", h.Reviews.Create)
	priv.GET("/notifications", h.Notifications.Mine)
	priv.POST("/notifications/:id/read", h.Notifications.MarkRead)
	priv.POST("/chats", h.Chats.Send)
	priv.GET("/chats/:user_id", h.Chats.Conversation)

	// catalog management: admin or company staff
	staff := e.Group("/v1")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCompany))
	staff.POST("/buses", h.Buses.Create)
	staff.GET("/buses/:id", h.Buses.Get)
	staff.PUT("/buses/:id", h.Buses.Update)
	staff.DELETE("/buses/:id", h.Buses.Delete)
	staff.POST("/schedules", h.Schedules.Create)
	staff.PUT("/schedules/:id", h.Schedules.Update)
	staff.PATCH("/schedules/:id/status", h.Schedules.UpdateStatus)
	staff.DELETE("/schedules/:id", h.Schedules.Delete)
	staff.POST("/drivers", h.Drivers.Create)
	staff.GET("/drivers/:id", h.Drivers.Get)
	staff.PUT("/drivers/:id", h.Drivers.Update)
	staff.DELETE("/drivers/:id", h.Drivers.Delete)
	staff.GET("/companies/:id/drivers", h.Drivers.ListByCompany)
	staff.POST("/driver-assignments", h.Drivers.Assign)
	staff.GET("/schedules/:id/assignments", h.Drivers.ListAssignments)
	staff.DELETE("/driver-assignments/:assignment_id", h.Drivers.Unassign)
	staff.POST("/gps", h.GPS.Ingest)
	staff.POST("/reservations/:id/confirm", h.Reservations.Confirm)

	// agents record their own sales
	agent := e.Group("/v1")
	agent.Use(middleware.JWTAuth(jwtSecret))
	agent.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAgent))
	agent.POST("/agent-sales", h.Agents.RecordSale)
	agent.GET("/agents/:id/sales", h.Agents.Sales)

	// admin only
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users/all-users", h.Users.AllUsers)
	admin.POST("/companies", h.Companies.Create)
	admin.PUT("/companies/:id", h.Companies.Update)
	admin.DELETE("/companies/:id", h.Companies.Delete)
	admin.POST("/routes", h.Routes.Create)
	admin.PUT("/routes/:id", h.Routes.Update)
	admin.DELETE("/routes/:id", h.Routes.Delete)
	admin.POST("/routes/:id/stops", h.Routes.CreateStop)
	admin.PUT("/stops/:stop_id", h.Routes.UpdateStop)
	admin.DELETE("/stops/:stop_id", h.Routes.DeleteStop)
	admin.POST("/promotions", h.Promotions.Create)
	admin.PUT("/promotions/:id", h.Promotions.Update)
	admin.DELETE("/promotions/:id", h.Promotions.Delete)
	admin.PATCH("/payments/:id/status", h.Payments.UpdateStatus)
	admin.DELETE("/reviews/:id", h.Reviews.Delete)
	admin.POST("/notifications", h.Notifications.Send)
	admin.POST("/agents", h.Agents.Create)
	admin.GET("/agents", h.Agents.List)
}

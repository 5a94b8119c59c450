package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/handlers"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Me          *handlers.MeHandler
	Barbers     *handlers.BarberHandler
	Schedules   *handlers.ScheduleHandler
	Appointment *handlers.AppointmentHandler
	Reviews     *handlers.ReviewHandler
	AuditLogs   *handlers.AuditLogsHandler
}

type Guards struct {
	Tokens       middleware.TokenParser
	BookingLimit *middleware.IPRateLimiter
	Log          *zap.Logger
}

func RegisterRoutes(r *gin.Engine, h Handlers, g Guards, mw ...gin.HandlerFunc) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(mw...)

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}

	auth := middleware.AuthMiddleware(g.Tokens)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/me", auth, h.Me.GetMe)

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/barbers", h.Barbers.List)
		api.GET("/barbers/:id", h.Barbers.Get)
		api.GET("/appointments/available-slots", h.Appointment.AvailableSlots)

		book := []gin.HandlerFunc{middleware.OptionalAuth(g.Tokens)}
		if g.BookingLimit != nil {
			book = append(book, middleware.RateLimitMiddleware(g.BookingLimit, g.Log))
		}
		api.POST("/appointments", append(book, h.Appointment.Book)...)

		// ------------------------------
		// CLIENT
		// ------------------------------
		client := api.Group("/")
		client.Use(auth, middleware.RequireRoles(models.RoleClient, models.RoleBarber, models.RoleAdmin))
		{
			client.GET("/appointments/my", h.Appointment.My)
			client.POST("/reviews", h.Reviews.Create)
			client.GET("/reviews/my", h.Reviews.My)
		}

		// ------------------------------
		// BARBER
		// ------------------------------
		barber := api.Group("/barber")
		barber.Use(auth, middleware.RequireRoles(models.RoleBarber, models.RoleAdmin))
		{
			barber.POST("/schedules", h.Schedules.CreateOwn)
			barber.GET("/schedules", h.Schedules.ListOwn)
			barber.PUT("/schedules/:id", h.Schedules.UpdateOwn)
			barber.DELETE("/schedules/:id", h.Schedules.DeleteOwn)

			barber.GET("/me", h.Barbers.GetOwn)
			barber.PUT("/me", h.Barbers.UpdateOwn)

			barber.POST("/avatar", h.Barbers.UploadAvatar)
			barber.DELETE("/avatar", h.Barbers.RemoveAvatar)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(auth, middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/schedules", h.Schedules.AdminList)
			admin.POST("/schedules", h.Schedules.AdminCreate)
			admin.PUT("/schedules/:id", h.Schedules.AdminUpdate)
			admin.DELETE("/schedules/:id", h.Schedules.AdminDelete)

			admin.GET("/appointments", h.Appointment.AdminList)
			admin.POST("/appointments", h.Appointment.AdminBook)
			admin.DELETE("/appointments/:id", h.Appointment.AdminCancel)

			admin.GET("/reviews", h.Reviews.AdminList)
			admin.POST("/reviews/:id/approve", h.Reviews.Approve)
			admin.DELETE("/reviews/:id", h.Reviews.Delete)

			admin.GET("/barbers", h.Barbers.List)
			admin.POST("/barbers", h.Barbers.Promote)
			admin.GET("/barbers/:id", h.Barbers.AdminGet)
			admin.PUT("/barbers/:id", h.Barbers.AdminUpdate)
			admin.DELETE("/barbers/:id", h.Barbers.AdminDelete)
			admin.POST("/barbers/:id/avatar", h.Barbers.AdminUploadAvatar)
			admin.DELETE("/barbers/:id/avatar", h.Barbers.AdminRemoveAvatar)

			if h.AuditLogs != nil {
				admin.GET("/audit-logs", h.AuditLogs.List)
			}
		}
	}
}

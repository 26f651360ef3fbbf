package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mindmatestudy/backend/internal/middleware"
	"github.com/mindmatestudy/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	r.GET("/health", svc.healthHandler.Health)
	r.GET("/health/detail", svc.healthHandler.CheckHealth)
	r.GET("/metrics", svc.metricsHandler.Metrics)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", svc.authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Therapists and mentors
		therapists := api.Group("/therapists")
		{
			therapists.POST("/register", svc.authLimiter.Middleware(), svc.therapistHandler.Register)
			therapists.POST("/login", svc.authLimiter.Middleware(), svc.therapistHandler.Login)
			therapists.GET("/therapist", svc.therapistHandler.ListTherapists)
			therapists.GET("/mentor", svc.therapistHandler.ListMentors)
			therapists.GET("/:id", svc.therapistHandler.GetByID)
			therapists.PUT("/:id",
				middleware.AuthRequired(),
				middleware.RoleRequired("therapist", "mentor", "admin"),
				svc.therapistHandler.Update)
		}

		// Slots
		slots := api.Group("/slots")
		{
			slots.POST("/add",
				middleware.AuthRequired(),
				middleware.RoleRequired("therapist", "mentor", "admin"),
				svc.slotHandler.Add)
			slots.GET("/:id", svc.slotHandler.ListByTherapist)
		}

		// Student accounts; therapist and mentor tokens carry ids from another table
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.RoleRequired("user", "admin"))
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.PUT("/auth/password", svc.authHandler.ChangePassword)

			protected.GET("/dashboard", svc.dashboardHandler.GetDashboard)
			protected.GET("/dashboard/history", svc.dashboardHandler.GetHistory)
			protected.GET("/dashboard/latest", svc.dashboardHandler.GetLatest)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/dashboard/snapshots", svc.dashboardHandler.TriggerSnapshots)
		}
	}
}

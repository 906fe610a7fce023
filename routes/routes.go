package routes

import (
	"cleanpro-backend/config"
	"cleanpro-backend/controllers"
	"cleanpro-backend/models"
	"cleanpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every HTTP surface for router wiring.
type Controllers struct {
	Auth         *controllers.AuthController
	Clients      *controllers.ClientController
	Workers      *controllers.WorkerController
	PricingRules *controllers.PricingRuleController
	Appointments *controllers.AppointmentController
	Dashboard    *controllers.DashboardController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", ctrl.Auth.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client roster
		clients := api.Group("/clients", utils.RequireRole(models.RoleAdmin))
		{
			clients.POST("", ctrl.Clients.CreateClient)
			clients.GET("", ctrl.Clients.GetClients)
			clients.GET("/:id", ctrl.Clients.GetClient)
			clients.PUT("/:id", ctrl.Clients.UpdateClient)
			clients.DELETE("/:id", ctrl.Clients.DeleteClient)
		}

		// Crew roster, availability and time off
		workers := api.Group("/workers")
		{
			workers.GET("", utils.RequireRole(models.RoleAdmin), ctrl.Workers.GetWorkers)
			workers.GET("/:id", ctrl.Workers.GetWorker)
			workers.GET("/:id/availability", ctrl.Workers.GetAvailability)
			workers.PUT("/:id/availability", utils.RequireRole(models.RoleAdmin, models.RoleWorker), ctrl.Workers.SetAvailability)
			workers.GET("/:id/timeoff", ctrl.Workers.GetTimeOff)
			workers.POST("/:id/timeoff", utils.RequireRole(models.RoleAdmin, models.RoleWorker), ctrl.Workers.RequestTimeOff)
		}
		api.PUT("/timeoff/:requestId/review", utils.RequireRole(models.RoleAdmin), ctrl.Workers.ReviewTimeOff)

		// Pricing rules and quoting
		pricing := api.Group("/pricing-rules", utils.RequireRole(models.RoleAdmin))
		{
			pricing.POST("", ctrl.PricingRules.CreateRule)
			pricing.GET("", ctrl.PricingRules.GetRules)
			pricing.GET("/:id", ctrl.PricingRules.GetRule)
			pricing.PUT("/:id", ctrl.PricingRules.UpdateRule)
			pricing.DELETE("/:id", ctrl.PricingRules.DeleteRule)
		}
		api.POST("/pricing/quote", ctrl.PricingRules.Quote)

		// Appointments
		appointments := api.Group("/appointments")
		{
			appointments.POST("", ctrl.Appointments.CreateAppointment)
			appointments.GET("", ctrl.Appointments.GetAppointments)
			appointments.GET("/:id", ctrl.Appointments.GetAppointment)
			appointments.PUT("/:id", ctrl.Appointments.UpdateAppointment)
			appointments.POST("/:id/cancel", ctrl.Appointments.CancelAppointment)
			appointments.PUT("/:id/workers", utils.RequireRole(models.RoleAdmin), ctrl.Appointments.AssignWorkers)
			appointments.GET("/:id/payments", utils.RequireRole(models.RoleAdmin), ctrl.Appointments.GetPayments)
			appointments.GET("/:id/audits", utils.RequireRole(models.RoleAdmin), ctrl.Appointments.GetAudits)
			appointments.DELETE("/:id", utils.RequireRole(models.RoleAdmin), ctrl.Appointments.DeleteAppointment)
		}
		api.POST("/appointments/check-conflicts", ctrl.Appointments.CheckConflicts)
		api.POST("/recurrences/expand", utils.RequireRole(models.RoleAdmin), ctrl.Appointments.ExpandRecurrences)

		// Dashboard
		api.GET("/dashboard", utils.RequireRole(models.RoleAdmin), ctrl.Dashboard.GetDashboard)
	}

	return r
}

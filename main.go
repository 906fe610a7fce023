package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cleanpro-backend/config"
	"cleanpro-backend/controllers"
	"cleanpro-backend/gateway"
	"cleanpro-backend/models"
	"cleanpro-backend/routes"
	"cleanpro-backend/services"
	"cleanpro-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.Connect()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer config.Close(db)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.AppointmentWorker{},
		&models.WorkerAvailability{},
		&models.TimeOffRequest{},
		&models.PricingRule{},
		&models.PaymentRecord{},
		&models.OverrideAudit{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	stores := store.NewGorm(db)

	var gw gateway.PaymentGateway
	if url := config.PaymentGatewayURL(); url != "" {
		gw = gateway.NewRESTGateway(url, config.PaymentGatewayKey())
	} else {
		log.Println("PAYMENT_GATEWAY_URL not set, using in-memory payment gateway")
		gw = gateway.NewFake()
	}

	horizonDays := config.RecurrenceHorizonDays()

	pricing := services.NewPricingService(stores.PricingRules)
	conflicts := services.NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)
	expander := services.NewRecurrenceExpander(stores.Appointments, stores.Assignments, conflicts)
	reconciler := services.NewReconciler(stores.Payments, gw)
	notifier := services.NewSMSNotifier(stores.Users)

	appointments := services.NewAppointmentService(
		stores, pricing, conflicts, expander, reconciler, notifier,
		horizonDays, config.CancellationFeePercent(),
	)

	// Nightly sweep keeps every active series materialized through the
	// horizon even when nobody touches it.
	c := cron.New()
	if _, err := c.AddFunc("0 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		created, err := expander.ExpandAll(ctx, horizonDays)
		if err != nil {
			log.Printf("recurrence sweep: %v", err)
			return
		}
		log.Printf("recurrence sweep: created %d occurrences", created)
	}); err != nil {
		log.Fatalf("cron: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := routes.SetupRouter(routes.Controllers{
		Auth:         controllers.NewAuthController(stores.Users),
		Clients:      controllers.NewClientController(stores.Users),
		Workers:      controllers.NewWorkerController(stores.Users, stores.Availability, stores.TimeOff),
		PricingRules: controllers.NewPricingRuleController(stores.PricingRules, pricing),
		Appointments: controllers.NewAppointmentController(appointments, stores.Payments, stores.Audits),
		Dashboard:    controllers.NewDashboardController(appointments),
	})
	printRoutes(r)

	if err := r.Run(":" + config.Port()); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

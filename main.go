package main

import (
	"net/http"

	"github.com/Taylan474/winter-service-manager-sub001/cache"
	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/handlers"
	"github.com/Taylan474/winter-service-manager-sub001/middleware"
	"github.com/Taylan474/winter-service-manager-sub001/models"
	"github.com/Taylan474/winter-service-manager-sub001/reconcile"
	"github.com/Taylan474/winter-service-manager-sub001/report"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.GetLogger()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// One shared cache for reference data, passed to every handler that
	// needs it.
	referenceCache := cache.New()

	reconciler := reconcile.New(database.NewReconcileStore(database.GetDB()))
	reportBuilder := report.NewBuilder(database.NewReportStore(database.GetDB()))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(cfg)
	workLogHandler := handlers.NewWorkLogHandler(cfg, reconciler)
	inventoryHandler := handlers.NewInventoryHandler(cfg, referenceCache)
	statusHandler := handlers.NewStreetStatusHandler(cfg)
	billingHandler := handlers.NewBillingHandler(cfg, referenceCache)
	reportHandler := handlers.NewReportHandler(cfg, reportBuilder)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/health/live", healthHandler.Live)
	router.Get("/health/ready", healthHandler.Ready)
	router.Post("/api/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/api/logout", authHandler.Logout)
		r.Post("/api/change-password", authHandler.ChangePassword)

		// Work logs (all authenticated users, ownership enforced in handler)
		r.Get("/api/worklogs", workLogHandler.List)
		r.Get("/api/worklogs/summary", workLogHandler.Summary)
		r.Post("/api/worklogs", workLogHandler.Create)
		r.Put("/api/worklogs/{id}", workLogHandler.Update)
		r.Delete("/api/worklogs/{id}", workLogHandler.Delete)

		// Inventory and status reads
		r.Get("/api/cities", inventoryHandler.ListCities)
		r.Get("/api/streets", inventoryHandler.ListStreets)
		r.Get("/api/status", statusHandler.DayOverview)
		r.Get("/api/streets/{id}/status", statusHandler.History)
		r.Post("/api/streets/{id}/status", statusHandler.Transition)

		// Reports (workers may create, management is admin only)
		r.Get("/api/reports", reportHandler.List)
		r.Get("/api/reports/{id}", reportHandler.Get)
		r.Post("/api/reports", reportHandler.Create)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/api/users", authHandler.ListUsers)
			r.Post("/api/users", authHandler.CreateUser)
			r.Put("/api/users/{id}", authHandler.UpdateUser)
			r.Delete("/api/users/{id}", authHandler.DeleteUser)

			r.Post("/api/cities", inventoryHandler.CreateCity)
			r.Delete("/api/cities/{id}", inventoryHandler.DeleteCity)
			r.Post("/api/areas", inventoryHandler.CreateArea)
			r.Delete("/api/areas/{id}", inventoryHandler.DeleteArea)
			r.Post("/api/streets", inventoryHandler.CreateStreet)
			r.Put("/api/streets/{id}", inventoryHandler.UpdateStreet)
			r.Delete("/api/streets/{id}", inventoryHandler.DeleteStreet)

			r.Get("/api/customers", billingHandler.ListCustomers)
			r.Post("/api/customers", billingHandler.CreateCustomer)
			r.Put("/api/customers/{id}", billingHandler.UpdateCustomer)
			r.Delete("/api/customers/{id}", billingHandler.DeleteCustomer)
			r.Get("/api/prices", billingHandler.ListPrices)
			r.Post("/api/prices", billingHandler.CreatePrice)
			r.Put("/api/prices/{id}", billingHandler.UpdatePrice)
			r.Get("/api/templates", billingHandler.ListTemplates)
			r.Post("/api/templates", billingHandler.CreateTemplate)
			r.Put("/api/templates/{id}", billingHandler.UpdateTemplate)
			r.Get("/api/invoices", billingHandler.ListInvoices)
			r.Post("/api/invoices", billingHandler.CreateInvoice)
			r.Put("/api/invoices/{id}/status", billingHandler.UpdateInvoiceStatus)

			r.Put("/api/reports/{id}/status", reportHandler.UpdateStatus)
			r.Delete("/api/reports/{id}", reportHandler.Delete)
			r.Get("/api/reports/{id}/export", reportHandler.ExportCSV)
			r.Get("/api/worklogs/export", workLogHandler.ExportCSV)
		})
	})

	logger.Infof("Server starting on port %s", cfg.ServerPort)
	logger.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}

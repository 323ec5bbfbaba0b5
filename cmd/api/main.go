package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/loanbridge/backend/docs"
	"github.com/loanbridge/backend/internal/config"
	"github.com/loanbridge/backend/internal/handler"
	"github.com/loanbridge/backend/internal/repository"
	"github.com/loanbridge/backend/internal/scheduler"
	"github.com/loanbridge/backend/internal/service"
)

// @title LoanBridge API
// @version 1.0
// @description Multi-bank loan matching API: eligibility, offer pricing, acceptance and per-lender application tracking.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@loanbridge.ph

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/loanbridge?sslmode=disable"
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	applicationRepo := repository.NewLoanApplicationRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	bankAppRepo := repository.NewBankApplicationRepository(db)
	lenderRepo := repository.NewLenderRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize services
	noise := service.NewRandNoise(time.Now().UnixNano())
	applicationService := service.NewApplicationService(applicationRepo, bankAppRepo, offerRepo, historyRepo, cfg)
	offerService := service.NewOfferService(offerRepo, bankAppRepo, applicationRepo, lenderRepo, historyRepo, noise)
	lenderService := service.NewLenderService(lenderRepo)
	assessmentService := service.NewAssessmentService(assessmentRepo, applicationRepo)
	exportService := service.NewExportService(applicationRepo, offerRepo)

	// Seed the lender catalog so a fresh database can match immediately
	if count, err := lenderService.SeedDefaults(context.Background()); err != nil {
		logger.Error("Failed to seed lenders", slog.String("error", err.Error()))
	} else {
		logger.Info("Lender catalog seeded", slog.Int("count", count))
	}

	// Initialize handlers
	applicationHandler := handler.NewApplicationHandler(applicationService)
	offerHandler := handler.NewOfferHandler(offerService)
	lenderHandler := handler.NewLenderHandler(lenderService)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)
	exportHandler := handler.NewExportHandler(exportService)
	calculatorHandler := handler.NewCalculatorHandler()

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	// CORS - allow frontend origin from env or default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Post("/api/applications", applicationHandler.Create)
	r.Post("/api/calculator/amortize", calculatorHandler.Amortize)
	r.Get("/api/lenders", lenderHandler.List)
	r.Get("/api/lenders/{id}", lenderHandler.Get)
	r.Post("/api/lenders/seed", lenderHandler.Seed) // Admin: reseed the catalog

	// Session routes - scoped to the application in the bearer token
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		r.Get("/api/applications/me", applicationHandler.Get)
		r.Get("/api/applications/me/history", applicationHandler.History)
		r.Post("/api/applications/me/accept", applicationHandler.AcceptOffer)
		r.Post("/api/applications/me/withdraw", applicationHandler.Withdraw)

		r.Post("/api/applications/me/offers", offerHandler.Generate)
		r.Get("/api/applications/me/offers", offerHandler.List)

		r.Post("/api/applications/me/assessment", assessmentHandler.Assess)
		r.Get("/api/applications/me/assessment", assessmentHandler.Latest)

		r.Get("/api/applications/me/export/offers.csv", exportHandler.OffersCSV)
		r.Get("/api/applications/me/export/summary.pdf", exportHandler.AcceptanceSummaryPDF)
	})

	// Approver routes
	r.Get("/api/approver/applications", applicationHandler.List)
	r.Put("/api/approver/applications/{id}/lenders/{lenderId}/status", applicationHandler.Transition)

	// Initialize and start the offer expiry sweep
	var sweepScheduler *scheduler.Scheduler
	if cfg.ExpirySweepEnabled {
		schedCfg := scheduler.Config{
			Schedule: cfg.ExpirySweepSchedule,
			Timeout:  cfg.ExpirySweepTimeout,
			Enabled:  cfg.ExpirySweepEnabled,
		}
		sweepScheduler = scheduler.New(schedCfg, offerService, logger)
		if err := sweepScheduler.Start(); err != nil {
			logger.Error("Failed to start expiry scheduler", slog.String("error", err.Error()))
		} else {
			logger.Info("Expiry scheduler started",
				slog.String("schedule", cfg.ExpirySweepSchedule),
				slog.Duration("timeout", cfg.ExpirySweepTimeout),
			)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Stop scheduler first
		if sweepScheduler != nil {
			ctx := sweepScheduler.Stop()
			<-ctx.Done()
			logger.Info("Scheduler stopped")
		}

		// Shutdown HTTP server
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}

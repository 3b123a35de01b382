// File: cargoassist/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargoassist/config"
	"cargoassist/cron"
	"cargoassist/database"
	auditRepoPkg "cargoassist/database/repository/audit"
	bookingRepoPkg "cargoassist/database/repository/booking"
	routeRepoPkg "cargoassist/database/repository/route"
	"cargoassist/handlers"
	"cargoassist/middleware"
	"cargoassist/routes"
	"cargoassist/services/dialogue"
	"cargoassist/services/intelligence"
	"cargoassist/services/tasks"
	"cargoassist/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitConversationCache()

	// Repositories.
	routeRepo := routeRepoPkg.NewMongoRouteRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	auditRepo := auditRepoPkg.NewMongoAuditRepo()

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := routeRepo.EnsureSeedData(setupCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to seed route data: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(setupCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := auditRepo.EnsureIndexes(setupCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create audit indexes: %v", err)
	}
	setupCancel()

	// Services.
	extractor, err := intelligence.NewGeminiExtractor(config.AppConfig.GeminiAPIKey, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize extractor: %v", err)
	}
	historyTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	historyStore := intelligence.NewRedisHistoryStore(utils.GetConversationCacheClient(), historyTTL)
	machine := dialogue.NewMachine(routeRepo, bookingRepo, config.AppConfig.ConfidenceThreshold)

	// Background workers.
	enqueuer := tasks.NewEnqueuer(logger)
	defer enqueuer.Close()
	cron.InitAuditWorker(auditRepo, logger)
	cron.StartArchivalSweep(bookingRepo, 24*time.Hour, config.AppConfig.ArchiveAfterDays, logger)
	utils.StartHealthMonitor([]*redis.Client{utils.GetConversationCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.AuditMiddleware(enqueuer))

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		RouteRepo:   routeRepo,
		BookingRepo: bookingRepo,

		ConversationHandler: handlers.NewConversationHandler(handlers.ConversationDeps{
			Extractor: extractor,
			History:   historyStore,
			Machine:   machine,
		}),

		QuoteHandler:        handlers.NewQuoteHandler(routeRepo),
		BookHandler:         handlers.NewBookHandler(routeRepo, bookingRepo),
		CancelHandler:       handlers.NewCancelHandler(bookingRepo),
		TrackHandler:        handlers.NewTrackHandler(bookingRepo),
		ListBookingsHandler: handlers.NewListBookingsHandler(bookingRepo),
		ListRoutesHandler:   handlers.NewListRoutesHandler(routeRepo),

		AISTTHandler: handlers.AISTTHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

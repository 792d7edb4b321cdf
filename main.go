// File: charterdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charterdesk/config"
	"charterdesk/cron"
	"charterdesk/database"
	bookingRepo "charterdesk/database/repository/booking"
	"charterdesk/handlers"
	"charterdesk/middleware"
	"charterdesk/routes"
	"charterdesk/services/settlement"
	"charterdesk/services/storage"
	"charterdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	storageSvc, err := storage.NewCloudinaryStorageService(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize signature storage: %v", err)
	}

	// repositories.
	repo := bookingRepo.NewMongoBookingRepo()

	// services.
	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderClient.Close()

	normalizer := settlement.NewNormalizer(config.SpecialTourMarkerList())
	settlementSvc := settlement.NewDefaultSettlementService(
		repo,
		utils.GetCacheClient(),
		reminderClient,
		logger,
		normalizer,
		config.AppConfig.PageSize,
	)

	// Full load first, then the change stream keeps the snapshot current.
	if err := settlementSvc.Resync(); err != nil {
		logger.Sugar().Fatalf("main: initial booking resync failed: %v", err)
	}
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := settlementSvc.WatchLoop(watchCtx); err != nil && watchCtx.Err() == nil {
			logger.Sugar().Errorf("main: booking watch loop exited: %v", err)
		}
	}()

	cron.InitReminderWorker()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	settlementHandler := handlers.NewSettlementHandler(settlementSvc, logger)
	storageHandler := handlers.NewStorageHandler(storageSvc, logger)
	routes.RegisterRoutes(router, settlementHandler, storageHandler)

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

	stopWatch()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acgeners/amor-saude/browser"
	"github.com/acgeners/amor-saude/config"
	ledgerRepo "github.com/acgeners/amor-saude/database/repository/ledger"
	"github.com/acgeners/amor-saude/handlers"
	"github.com/acgeners/amor-saude/middleware"
	"github.com/acgeners/amor-saude/routes"
	"github.com/acgeners/amor-saude/services/agenda"
	"github.com/acgeners/amor-saude/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	utils.InitLedgerCache()

	location, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid TIMEZONE %q: %v", config.AppConfig.Timezone, err)
	}

	// Browser session manager. A locked profile means another instance is
	// already driving the site; refuse to start rather than corrupt it.
	browserMgr := browser.NewManager(browser.Config{
		ProfileDir: config.AppConfig.ChromeProfileDir,
		RemoteURL:  config.AppConfig.BrowserRemoteURL,
		Headless:   config.Headless(),
	}, logger)
	if err := browserMgr.VerifyProfileAvailable(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// repositories.
	ledger := ledgerRepo.NewRedisLedger(utils.GetLedgerClient(), logger)

	// services.
	agendaService, err := agenda.NewDefaultAgendaService(
		browserMgr,
		ledger,
		logger,
		config.AppConfig.AgendaURL,
		agenda.Credentials{
			User:     config.AppConfig.AgendaUser,
			Password: config.AppConfig.AgendaPassword,
		},
		location,
		config.AppConfig.SearchWindowDays,
		time.Duration(config.AppConfig.DedupTTLSeconds)*time.Second,
		config.AppConfig.DedupTTLUntilMidnight,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize agenda service: %v", err)
	}

	utils.StartHealthMonitor(utils.GetLedgerClient(), browserMgr.Alive)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())

	agendaHandler := handlers.NewAgendaHandler(agendaService, logger)
	routes.RegisterRoutes(router, agendaHandler)

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
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	// Hosted deployments keep the browser session (and its login) alive
	// across restarts; only local runs tear it down.
	if config.IsLocal() {
		if err := browserMgr.Shutdown(); err != nil {
			logger.Sugar().Warnf("main: browser shutdown: %v", err)
		}
	}

	logger.Info("Server exited")
}

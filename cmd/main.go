package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"nutriplan/internal/auth"
	"nutriplan/internal/handler"
	"nutriplan/internal/repositories"
	"nutriplan/internal/router"
	"nutriplan/internal/service"
	"nutriplan/pkg/database"
	"nutriplan/pkg/envconfig"
	"nutriplan/pkg/flags"
	"nutriplan/pkg/logger"
	"nutriplan/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting NutriPlan service",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	jwtSecret := envconfig.GetJWTSecret()
	if jwtSecret == "" {
		appLogger.Warn("JWT_SECRET is not set; bearer tokens cannot be validated securely")
	}

	dbConfig := envconfig.LoadDatabaseConfig()

	// Establish database connection
	db, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	// Initialize repositories with logger and database connection
	planRepo := repositories.NewPlanRepository(appLogger, db)
	completionRepo := repositories.NewCompletionRepository(appLogger, db)
	analyticsRepo := repositories.NewAnalyticsRepository(appLogger, db)
	migrationRepo := repositories.NewMigrationRepository(appLogger, db)

	// Initialize services
	cloneService := service.NewCloneService(planRepo, appLogger)
	planService := service.NewPlanService(planRepo, appLogger)
	completionService := service.NewCompletionService(completionRepo, appLogger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, planRepo, appLogger)
	migrationService := service.NewMigrationService(migrationRepo, planRepo, appLogger)

	// Initialize handlers
	cloneHandler := handler.NewCloneHandler(cloneService, appLogger)
	planHandler := handler.NewPlanHandler(planService, appLogger)
	completionHandler := handler.NewCompletionHandler(completionService, appLogger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, appLogger)
	migrationHandler := handler.NewMigrationHandler(migrationService, appLogger)

	authenticator := auth.NewAuthenticator(jwtSecret, appLogger)

	mux := router.NewRouter(cloneHandler, completionHandler, planHandler,
		analyticsHandler, migrationHandler, authenticator)

	rootHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AlphaDevs01/controleProducao/cmd"
	"github.com/AlphaDevs01/controleProducao/internal/container"
	"github.com/AlphaDevs01/controleProducao/internal/database"
	"github.com/AlphaDevs01/controleProducao/internal/logger"
	"github.com/AlphaDevs01/controleProducao/internal/middleware"
	"github.com/AlphaDevs01/controleProducao/internal/routes"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLogger.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	zapLogger.Info("connected to the database")

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := database.RunMigrations(db, "./migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	appContainer, err := container.NewAppContainer(db)
	if err != nil {
		zapLogger.Fatal("failed to initialize application container", zap.Error(err))
	}

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	middleware.UpdateHealthStatus("ok")

	host := os.Getenv("APP_HOST")
	if host == "" {
		host = ":8080"
	}
	if err := router.Run(host); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

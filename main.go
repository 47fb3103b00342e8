package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"armory/cmd"
	"armory/internal/core/container"
	"armory/internal/core/logger"
	"armory/internal/core/routes"
	"armory/internal/database"
	"armory/internal/middleware"
)

const appVersion = "1.0.0"

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		os.Stderr.WriteString("Warning: No .env file found, falling back to system environment variables.\n")
	}

	cmd.Execute(ctx)
}

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("Unable to connect to the database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to the database")

	c := container.NewAppContainer(db, log)

	middleware.SetVersion(appVersion)

	router := gin.New()
	routes.Register(router, c, log)

	addr := os.Getenv("APP_HOST")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go watchDatabase(ctx, db, log)

	<-ctx.Done()

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}

// watchDatabase degrades the reported health status while the database is
// unreachable.
func watchDatabase(ctx context.Context, db *sql.DB, log *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.PingContext(ctx); err != nil {
				log.Warn("Database ping failed", zap.Error(err))
				middleware.UpdateHealthStatus("degraded")
			} else {
				middleware.UpdateHealthStatus("ok")
			}
		}
	}
}

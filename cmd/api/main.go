package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pujaseva-backend/pkg/container"
	"pujaseva-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments inject the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger.Init(os.Getenv("APP_ENV"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	c, err := container.New(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer c.Cleanup()

	srv := NewServer(c)

	go func() {
		logger.Info("API server starting", map[string]interface{}{
			"port": c.Config.App.Port,
			"env":  c.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", err)
	}

	logger.Info("Server stopped", nil)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pujaseva-backend/internal/infrastructure/queue"
	"pujaseva-backend/pkg/container"
	"pujaseva-backend/pkg/logger"
)

func main() {
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

	srv, mux := NewWorkerServer(c)

	scheduler := queue.NewScheduler(c.Config.Redis.Host)
	if err := scheduler.RegisterSweepJobs(); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}

	go func() {
		logger.Info("Scheduler starting", nil)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Scheduler error: %v", err)
		}
	}()

	go func() {
		logger.Info("Worker starting", map[string]interface{}{
			"redis": c.Config.Redis.Host,
		})
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Worker error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("Worker stopped", nil)
}

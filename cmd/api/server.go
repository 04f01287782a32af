package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pujaseva-backend/pkg/container"
)

// NewServer assembles the HTTP server around the router.
func NewServer(c *container.Container) *http.Server {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	SetupRouter(engine, c)

	return &http.Server{
		Addr:         ":" + c.Config.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

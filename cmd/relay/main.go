package main

import (
	"log"

	"github.com/tanscode/webrtc-relay/config"
	"github.com/tanscode/webrtc-relay/internal/handlers"
	"github.com/tanscode/webrtc-relay/internal/middleware"
	"github.com/tanscode/webrtc-relay/internal/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to Redis (optional presence/metrics mirror)
	if cfg.Redis.Enabled {
		if err := redis.Connect(cfg.Redis); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		log.Println("Redis connection established")
	} else {
		log.Println("Redis not configured, presence mirroring disabled")
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	hub := handlers.NewHub(cfg)

	apiGroup := router.Group("/api")
	{
		// Login endpoint (public)
		apiGroup.POST("/auth/login", handlers.Login(cfg.JWTSecret))

		// User directory lookup (public, unrelated to room state)
		apiGroup.GET("/getUserInfo", handlers.GetUserInfo)

		// Live room info (requires JWT)
		apiGroup.GET("/rooms/:roomId", middleware.JWTAuth(cfg.JWTSecret), hub.GetRoom)
	}

	// WebSocket signaling endpoint
	router.GET("/ws", hub.HandleSignaling)

	// Start server
	log.Printf("Starting signaling relay on port %s (max room size %d)", cfg.Port, cfg.MaxRoomSize)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

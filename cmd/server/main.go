package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"church_directory_admin/internal/middleware"
	"church_directory_admin/internal/repositories"
	router_pkg "church_directory_admin/internal/router"
	"church_directory_admin/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize Logger
	utils.InitLogger()

	// The remote member service owns storage and id assignment; this server is
	// only its administrative client.
	apiBaseURL := utils.Getenv("DIRECTORY_API_BASE_URL", "http://localhost:5000")
	memberRepo := repositories.NewMemberRepository(apiBaseURL, &http.Client{})
	utils.LogInfo("Member service configured", map[string]interface{}{"base_url": apiBaseURL})

	router := gin.Default()

	// Request id first so the request logger can pick it up
	router.Use(middleware.RequestID())
	router.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"} // Default origins
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router_pkg.Setup(router, memberRepo)

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := router.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

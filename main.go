package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/YassineBen-Yahia/realestate-api/config"
	"github.com/YassineBen-Yahia/realestate-api/controllers"
	"github.com/YassineBen-Yahia/realestate-api/middleware"
	"github.com/YassineBen-Yahia/realestate-api/models"
	"github.com/YassineBen-Yahia/realestate-api/services"
)

func main() {
	log.Println("Starting Real Estate Marketplace API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Request{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize blob storage and the cascade orchestrator
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	imageService := services.InitImageService(s3Service)
	services.InitCascadeService(db, imageService)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public listing browsing
		v1.GET("/properties", controllers.ListProperties)
		v1.GET("/properties/:id", controllers.GetProperty)
	}

	auth := v1.Group("")
	auth.Use(middleware.EnsureValidToken(cfg))
	{
		// Account
		auth.POST("/users", controllers.CreateUser)
		auth.GET("/users/me", controllers.GetMyProfile)
		auth.PUT("/users/me", controllers.UpdateMyProfile)
		auth.DELETE("/users/me", controllers.DeleteMyAccount)

		// Listings
		auth.POST("/properties", controllers.CreateProperty)
		auth.PUT("/properties/:id", controllers.UpdateProperty)
		auth.DELETE("/properties/:id", controllers.DeleteProperty)
		auth.DELETE("/properties/:id/images/:imageId", controllers.DeletePropertyImage)

		// Inquiries
		auth.POST("/requests", controllers.CreateRequest)
		auth.GET("/requests", controllers.ListMyRequests)
		auth.GET("/requests/incoming", controllers.ListIncomingRequests)
		auth.GET("/requests/:id", controllers.GetRequest)
		auth.PUT("/requests/:id/status", controllers.UpdateRequestStatus)
		auth.DELETE("/requests/:id", controllers.DeleteRequest)

		// Messaging
		auth.POST("/messages", controllers.SendMessage)
		auth.GET("/messages", controllers.ListMessages)
		auth.GET("/messages/:id", controllers.GetMessage)
		auth.POST("/messages/:id/reply", controllers.ReplyToMessage)
		auth.DELETE("/messages/:id", controllers.DeleteMessage)

		// Admin area
		auth.GET("/admin/dashboard", controllers.GetDashboard)
		auth.GET("/admin/users", controllers.ListUsers)
		auth.GET("/admin/users/:id", controllers.GetUserDetails)
		auth.POST("/admin/users/:id/roles", controllers.ToggleUserRole)
		auth.DELETE("/admin/users/:id", controllers.AdminDeleteUser)
		auth.GET("/admin/properties", controllers.AdminListProperties)
		auth.GET("/admin/requests", controllers.AdminListRequests)
		auth.GET("/admin/messages", controllers.AdminListMessages)
		auth.GET("/admin/statistics", controllers.GetStatistics)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Real Estate Marketplace API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

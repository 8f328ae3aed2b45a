package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aniela13/card-scanner/internal/api/handlers"
	"github.com/Aniela13/card-scanner/internal/services"
	"github.com/Aniela13/card-scanner/internal/store"
)

func SetupRouter(scanner *services.Scanner, collection store.Collection, images *services.ImageStorage) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	scanHandler := handlers.NewScanHandler(scanner)
	collectionHandler := handlers.NewCollectionHandler(collection)

	// Serve stored captures
	if images != nil {
		router.Static(services.ScannedImagesRoute, images.StorageDir())
	}

	api := router.Group("/api")
	{
		cards := api.Group("/cards")
		{
			cards.POST("/scan", scanHandler.Scan)
			cards.POST("/save", scanHandler.Save)
			cards.POST("/reset", scanHandler.Reset)
		}

		collection := api.Group("/collection")
		{
			collection.GET("", collectionHandler.GetCollection)
			collection.DELETE("/:id", collectionHandler.DeleteCard)
			collection.GET("/stats", collectionHandler.GetStats)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

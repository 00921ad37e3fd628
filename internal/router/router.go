package router

import (
	"net/http"
	"time"

	"github.com/arbor-dev/arbor/internal/config"
	"github.com/arbor-dev/arbor/internal/handlers"
	"github.com/arbor-dev/arbor/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With", "X-Session-Token", "X-User-Email", "X-Auth-Token"},
		MaxAge:          24 * time.Hour,
	}))

	r.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	authHandler := handlers.NewAuthHandler(cfg)
	metricsHandler := handlers.NewMetricsHandler(cfg)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		api.GET("/auth", authHandler.Handle)
		api.POST("/auth", authHandler.Handle)

		api.GET("/trees", handlers.ListTrees)
		api.GET("/tree", handlers.LoadTree)
		api.POST("/tree", handlers.SaveTree)

		api.GET("/metrika/stats", metricsHandler.Stats)
	}

	return r
}

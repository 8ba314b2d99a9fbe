package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/replenishment/internal/api/handlers"
	"github.com/andresuchdata/replenishment/internal/api/middleware"
	"github.com/andresuchdata/replenishment/internal/service"
)

type Services struct {
	InventoryService *service.InventoryService
}

// RouterOptions are the HTTP-level limits applied by the router.
type RouterOptions struct {
	AllowedOrigins []string
	MaxUploadMB    int
}

func NewRouter(services *Services, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.InventoryService != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.InventoryService, int64(opts.MaxUploadMB)<<20)
		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.POST("/analyze", inventoryHandler.Analyze)
			inventoryGroup.POST("/replenishment", inventoryHandler.Replenishment)
			inventoryGroup.POST("/pareto", inventoryHandler.Pareto)
			inventoryGroup.POST("/warnings", inventoryHandler.Warnings)
			inventoryGroup.POST("/simulation", inventoryHandler.Simulation)
			inventoryGroup.POST("/export", inventoryHandler.Export)
			inventoryGroup.GET("/column-map", inventoryHandler.GetColumnMap)
			inventoryGroup.DELETE("/cache", inventoryHandler.InvalidateCache)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			switch trimmed {
			case "":
			case "*":
				allowAll = true
			default:
				parsed = append(parsed, trimmed)
			}
		}
	}
	return parsed, allowAll
}

package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/api/handlers"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/middleware"
	"github.com/playmatatu/billiards/internal/table"
	"github.com/playmatatu/billiards/internal/ws"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes. db and rdb may be nil; the routes
// backed by them then report the store as unavailable.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, m *table.Manager, hub *ws.Hub) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache middleware MUST be first in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	var mirror handlers.SnapshotLoader
	if rdb != nil {
		mirror = table.NewRedisEvents(rdb, cfg.SnapshotTTL)
	}
	var racks handlers.RackLister
	if db != nil {
		racks = table.NewRackStore(db)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		tables := v1.Group("/table")
		{
			tables.GET("/geometry", handlers.GetGeometry)
			tables.POST("", handlers.CreateTable(m, cfg))
			tables.GET("/:id", handlers.GetTable(m, mirror))
			tables.POST("/:id/reset", handlers.ResetTable(m, cfg))
			tables.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(hub, m, cfg))
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminAuth(db))
		{
			adminGroup.GET("/tables", handlers.GetAdminTables(m))
			adminGroup.DELETE("/tables/:id", handlers.CloseAdminTable(db, m))
			adminGroup.GET("/racks", handlers.GetAdminRacks(racks))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(db))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(db))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db, cfg))
		}
	}
}

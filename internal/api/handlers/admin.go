package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/admin"
	"github.com/playmatatu/billiards/internal/models"
	"github.com/playmatatu/billiards/internal/table"
)

// RackLister reads finished rack history.
type RackLister interface {
	ListRacks(ctx context.Context, tableID string, limit, offset int) ([]models.RackRecord, error)
}

// GetAdminTables lists the tables hosted by this instance
func GetAdminTables(m *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables := m.List()
		c.Header("X-Table-Count", strconv.Itoa(len(tables)))
		c.JSON(http.StatusOK, gin.H{"tables": tables, "total": len(tables)})
	}
}

// CloseAdminTable force-closes a table
func CloseAdminTable(db *sqlx.DB, m *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminPhone := c.GetString("admin_phone")
		id := c.Param("id")
		route := "/api/v1/admin/tables/" + id

		if err := m.Close(id, "Table closed by admin"); err != nil {
			admin.LogAdminAction(db, adminPhone, c.ClientIP(), route, "close_table", map[string]interface{}{"table_id": id}, false)
			respondTableError(c, err)
			return
		}

		admin.LogAdminAction(db, adminPhone, c.ClientIP(), route, "close_table", map[string]interface{}{"table_id": id}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// GetAdminRacks returns finished racks, newest first, optionally for one table
func GetAdminRacks(racks RackLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if racks == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rack history unavailable"})
			return
		}

		tableID := c.DefaultQuery("table_id", "")
		limit, offset := paging(c, 25)

		records, err := racks.ListRacks(c.Request.Context(), tableID, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch racks: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch racks"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"racks": records, "limit": limit, "offset": offset})
	}
}

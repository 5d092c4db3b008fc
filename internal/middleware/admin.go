package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/admin"
)

// AdminAuth validates the X-Admin-Phone and X-Admin-Token headers against
// admin_accounts and stores the admin phone in the context.
func AdminAuth(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := strings.TrimSpace(c.GetHeader("X-Admin-Phone"))
		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if phone == "" || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin credentials required"})
			c.Abort()
			return
		}

		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin store unavailable"})
			c.Abort()
			return
		}

		account, err := admin.ValidateAdminPhoneAndToken(db, phone, token, c.ClientIP())
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, admin.ErrIPNotAllowed) {
				status = http.StatusForbidden
			}
			admin.LogAdminAction(db, phone, c.ClientIP(), c.FullPath(), "auth", map[string]interface{}{"error": err.Error()}, false)
			c.JSON(status, gin.H{"error": "Invalid admin credentials"})
			c.Abort()
			return
		}

		c.Set("admin_phone", account.Phone)
		c.Next()
	}
}

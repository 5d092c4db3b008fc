package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/table"
)

const maxPageSize = 200

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// paging reads limit/offset query parameters with sane bounds
func paging(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// tableErrorStatus maps table and seat errors to HTTP status codes
func tableErrorStatus(err error) int {
	switch {
	case errors.Is(err, table.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, table.ErrTableClosed):
		return http.StatusGone
	case errors.Is(err, table.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, table.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, table.ErrInvalidSeat), errors.Is(err, table.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrWrongTable):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondTableError(c *gin.Context, err error) {
	c.JSON(tableErrorStatus(err), gin.H{"error": err.Error()})
}

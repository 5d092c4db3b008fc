package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/table"
)

// SnapshotLoader reads mirrored snapshots of tables that are not hosted here.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, tableID string) (*game.Snapshot, error)
}

type seatGrant struct {
	Seat   int    `json:"seat"`
	Player string `json:"player"`
	Token  string `json:"token"`
}

// GetGeometry returns the fixed table layout for renderers
func GetGeometry(c *gin.Context) {
	c.JSON(http.StatusOK, game.Geometry())
}

// CreateTable opens a new table and issues one seat token per player
func CreateTable(m *table.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Player1 string `json:"player1"`
			Player2 string `json:"player2"`
			HotSeat *bool  `json:"hot_seat"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		hotSeat := true
		if req.HotSeat != nil {
			hotSeat = *req.HotSeat
		}

		t, err := m.Create(req.Player1, req.Player2, hotSeat)
		if err != nil {
			log.Printf("[TABLE] Failed to create table: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to create table"})
			return
		}

		snap := t.Snapshot()
		ttl := cfg.SeatTokenTTL()
		seats := make([]seatGrant, 0, 2)
		for seat := 0; seat < 2; seat++ {
			token, err := auth.IssueSeatToken(cfg.JWTSecret, t.ID, seat, ttl)
			if err != nil {
				log.Printf("[TABLE] Failed to issue seat token for table %s: %v", t.ID, err)
				_ = m.Close(t.ID, "Seat token failure")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue seat tokens"})
				return
			}
			seats = append(seats, seatGrant{Seat: seat, Player: snap.Players[seat].Name, Token: token})
		}

		c.Header("X-Table-ID", t.ID)
		c.JSON(http.StatusCreated, gin.H{
			"table_id": t.ID,
			"hot_seat": hotSeat,
			"seats":    seats,
			"snapshot": snap,
		})
	}
}

// GetTable returns the latest snapshot. Tables hosted elsewhere are served
// from the mirrored snapshot when one is available.
func GetTable(m *table.Manager, mirror SnapshotLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		t, err := m.Get(id)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"table_id": id, "live": true, "snapshot": t.Snapshot()})
			return
		}

		if mirror != nil {
			snap, merr := mirror.LoadSnapshot(c.Request.Context(), id)
			if merr == nil {
				c.JSON(http.StatusOK, gin.H{"table_id": id, "live": false, "snapshot": snap})
				return
			}
			if !errors.Is(merr, table.ErrTableNotFound) {
				log.Printf("[REDIS] Failed to load snapshot for table %s: %v", id, merr)
			}
		}

		respondTableError(c, err)
	}
}

// ResetTable queues a Reset for the seat named by the bearer seat token
func ResetTable(m *table.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		seat, err := auth.AuthorizeSeat(cfg.JWTSecret, bearerToken(c), id)
		if err != nil {
			respondTableError(c, err)
			return
		}

		if err := m.Submit(id, seat.Seat, game.Input{Kind: game.InputReset}); err != nil {
			respondTableError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	}
}

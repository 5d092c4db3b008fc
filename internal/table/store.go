package table

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/models"
)

// RackStore persists finished racks in postgres.
type RackStore struct {
	db *sqlx.DB
}

func NewRackStore(db *sqlx.DB) *RackStore {
	return &RackStore{db: db}
}

// RecordRack inserts one finished rack into rack_results.
func (s *RackStore) RecordRack(ctx context.Context, tableID string, result game.RackResult) error {
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}

	rec := rackRecordFromResult(tableID, result)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rack_results (table_id, outcome, shooter_name, winner_name, loser_name, winner_group, shots, ticks, players, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, NOW())
	`, rec.TableID, rec.Outcome, rec.ShooterName, rec.WinnerName, rec.LoserName, rec.WinnerGroup, rec.Shots, rec.Ticks, string(players))
	if err != nil {
		return fmt.Errorf("insert rack result: %w", err)
	}
	return nil
}

// ListRacks returns finished racks, newest first. An empty tableID lists every table.
func (s *RackStore) ListRacks(ctx context.Context, tableID string, limit, offset int) ([]models.RackRecord, error) {
	racks := []models.RackRecord{}
	query := `
		SELECT id, table_id, outcome, shooter_name, winner_name, loser_name, winner_group, shots, ticks, players, created_at
		FROM rack_results
		WHERE ($1 = '' OR table_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := s.db.SelectContext(ctx, &racks, query, tableID, limit, offset); err != nil {
		return nil, fmt.Errorf("list rack results: %w", err)
	}
	return racks, nil
}

// rackRecordFromResult maps a result onto the row layout. The players column is filled separately.
func rackRecordFromResult(tableID string, result game.RackResult) models.RackRecord {
	rec := models.RackRecord{
		TableID:     tableID,
		Outcome:     string(result.Outcome),
		ShooterName: result.Players[result.Shooter].Name,
		WinnerName:  result.Players[result.Winner].Name,
		LoserName:   result.Players[result.Loser].Name,
		Shots:       result.Shots,
		Ticks:       int64(result.Ticks),
	}
	if group := result.Players[result.Winner].Group; group != game.GroupUnassigned {
		rec.WinnerGroup.String = string(group)
		rec.WinnerGroup.Valid = true
	}
	return rec
}

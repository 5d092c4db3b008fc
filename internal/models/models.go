package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// RackRecord is one finished rack as stored in rack_results
type RackRecord struct {
	ID          int            `db:"id" json:"id"`
	TableID     string         `db:"table_id" json:"table_id"`
	Outcome     string         `db:"outcome" json:"outcome"`
	ShooterName string         `db:"shooter_name" json:"shooter_name"`
	WinnerName  string         `db:"winner_name" json:"winner_name"`
	LoserName   string         `db:"loser_name" json:"loser_name"`
	WinnerGroup sql.NullString `db:"winner_group" json:"winner_group,omitempty"`
	Shots       int            `db:"shots" json:"shots"`
	Ticks       int64          `db:"ticks" json:"ticks"`
	Players     types.JSONText `db:"players" json:"players"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// AdminAccount represents an operator allowed to manage tables
type AdminAccount struct {
	Phone       string         `db:"phone" json:"phone"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one entry of the admin audit log
type AdminAudit struct {
	ID         int            `db:"id" json:"id"`
	AdminPhone string         `db:"admin_phone" json:"admin_phone"`
	IP         string         `db:"ip" json:"ip"`
	Route      string         `db:"route" json:"route"`
	Action     string         `db:"action" json:"action"`
	Details    types.JSONText `db:"details" json:"details"`
	Success    bool           `db:"success" json:"success"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is a config override editable from the admin API
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

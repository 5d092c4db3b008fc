package admin

import (
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	configs := []models.RuntimeConfig{}
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateRuntimeValue checks value against a runtime config value type
func ValidateRuntimeValue(valueType, value string) error {
	switch valueType {
	case "int":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if v < 0 {
			return fmt.Errorf("value must not be negative: %d", v)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// validateRuntimeKey applies per-key bounds on top of the type check.
// Lifetimes must be positive; table_idle_minutes=0 disables idle closing.
func validateRuntimeKey(key, value string) error {
	switch key {
	case "snapshot_ttl_seconds", "seat_token_ttl_minutes":
		if v, err := strconv.Atoi(value); err != nil || v < 1 {
			return fmt.Errorf("%s must be at least 1, got %s", key, value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, adminPhone string) error {
	existing, err := GetRuntimeConfigValue(db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}

	if err := ValidateRuntimeValue(existing.ValueType, value); err != nil {
		return err
	}
	if err := validateRuntimeKey(key, value); err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminPhone, key)
	return err
}

// ApplyRuntimeConfigToConfig loads runtime config from DB and applies overrides to the Config struct
func ApplyRuntimeConfigToConfig(db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAllRuntimeConfig(db)
	if err != nil {
		return err
	}

	applied := 0
	for _, c := range configs {
		if ApplyRuntimeValue(cfg, c.Key, c.Value) {
			applied++
		}
	}

	log.Printf("[CONFIG] Applied %d runtime config overrides from database", applied)
	return nil
}

// ApplyRuntimeValue sets one known key on cfg and reports whether it was applied
func ApplyRuntimeValue(cfg *config.Config, key, value string) bool {
	v, err := strconv.Atoi(value)
	if err != nil {
		return false
	}

	if err := validateRuntimeKey(key, value); err != nil || v < 0 {
		return false
	}

	applied := true
	cfg.Update(func(c *config.Config) {
		switch key {
		case "table_idle_minutes":
			c.TableIdleMinutes = v
		case "snapshot_ttl_seconds":
			c.SnapshotTTLSeconds = v
		case "seat_token_ttl_minutes":
			c.SeatTokenTTLMinutes = v
		default:
			applied = false
		}
	})
	return applied
}

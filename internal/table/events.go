package table

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the redis pub/sub channel carrying table events.
const EventsChannel = "table_events"

const (
	EventRackOver    = "rack_over"
	EventScratch     = "scratch"
	EventTableClosed = "table_closed"
)

// Event is a table-level notification fanned out to every renderer at the table.
type Event struct {
	Type    string           `json:"type"`
	TableID string           `json:"table_id"`
	Message string           `json:"message,omitempty"`
	Result  *game.RackResult `json:"result,omitempty"`
	At      time.Time        `json:"at"`
}

// SnapshotKey is the redis key mirroring a table's latest resting snapshot.
func SnapshotKey(tableID string) string {
	return "table:" + tableID + ":snapshot"
}

// RedisEvents publishes table events and mirrors snapshots in redis.
type RedisEvents struct {
	rdb *redis.Client
	ttl func() time.Duration
}

// NewRedisEvents reads the snapshot TTL from ttl on every save, so runtime
// overrides apply to the next mirrored frame.
func NewRedisEvents(rdb *redis.Client, ttl func() time.Duration) *RedisEvents {
	return &RedisEvents{rdb: rdb, ttl: ttl}
}

func (r *RedisEvents) snapshotTTL() time.Duration {
	if r.ttl == nil {
		return time.Minute
	}
	return r.ttl()
}

// PublishEvent sends ev on EventsChannel.
func (r *RedisEvents) PublishEvent(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return r.rdb.Publish(ctx, EventsChannel, data).Err()
}

// SaveSnapshot stores snap under SnapshotKey with the configured TTL. The
// mirror is read-only: tables are never restored from it.
func (r *RedisEvents) SaveSnapshot(ctx context.Context, tableID string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return r.rdb.SetEx(ctx, SnapshotKey(tableID), data, r.snapshotTTL()).Err()
}

// LoadSnapshot reads the mirrored snapshot, returning ErrTableNotFound when
// the key is missing or expired.
func (r *RedisEvents) LoadSnapshot(ctx context.Context, tableID string) (*game.Snapshot, error) {
	data, err := r.rdb.Get(ctx, SnapshotKey(tableID)).Bytes()
	if err == redis.Nil {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

package table

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/playmatatu/billiards/internal/config"
	"github.com/playmatatu/billiards/internal/game"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableClosed   = errors.New("table is closed")
	ErrInvalidSeat   = errors.New("invalid seat")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidInput  = errors.New("invalid input")
	ErrQueueFull     = errors.New("input queue full")
)

// RackRecorder stores finished racks.
type RackRecorder interface {
	RecordRack(ctx context.Context, tableID string, result game.RackResult) error
}

// EventSink publishes events and mirrors resting snapshots outside the process.
type EventSink interface {
	PublishEvent(ctx context.Context, ev Event) error
	SaveSnapshot(ctx context.Context, tableID string, snap game.Snapshot) error
}

// Listener receives live table output, normally the websocket hub.
type Listener interface {
	TableSnapshot(tableID string, snap game.Snapshot)
	TableEvent(ev Event)
}

// Manager owns every open table.
type Manager struct {
	tables   map[string]*Table
	store    RackRecorder
	events   EventSink
	listener Listener
	config   *config.Config
	ctx      context.Context
	mu       sync.RWMutex
}

// NewManager creates a manager whose tables live until ctx is cancelled. store,
// events and listener may be nil; without an event sink, events go straight to
// the listener.
func NewManager(ctx context.Context, cfg *config.Config, store RackRecorder, events EventSink, listener Listener) *Manager {
	return &Manager{
		tables:   make(map[string]*Table),
		store:    store,
		events:   events,
		listener: listener,
		config:   cfg,
		ctx:      ctx,
	}
}

// generateToken generates a random hex token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateTableID() string {
	return "table_" + generateToken(8)
}

// Create racks a new table and starts its run loop. Empty names fall back to
// the configured defaults.
func (m *Manager) Create(player1, player2 string, hotSeat bool) (*Table, error) {
	if err := m.ctx.Err(); err != nil {
		return nil, fmt.Errorf("manager stopped: %w", err)
	}

	if player1 == "" {
		player1 = m.config.Player1Name
	}
	if player2 == "" {
		player2 = m.config.Player2Name
	}

	t := New(generateTableID(), player1, player2, hotSeat, Hooks{
		OnSnapshot: m.onSnapshot,
		OnRackOver: m.onRackOver,
		OnEvent:    m.onEvent,
	})

	m.mu.Lock()
	m.tables[t.ID] = t
	m.mu.Unlock()

	t.Start(m.ctx)
	log.Printf("[TABLE] Created table %s (%s vs %s, hot_seat=%v)", t.ID, player1, player2, hotSeat)
	return t, nil
}

// Get returns an open table.
func (m *Manager) Get(id string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// Submit routes an input to a table.
func (m *Manager) Submit(id string, seat int, in game.Input) error {
	t, err := m.Get(id)
	if err != nil {
		return err
	}
	return t.Submit(seat, in)
}

// Close stops a table, removes it and announces the closure.
func (m *Manager) Close(id, reason string) error {
	m.mu.Lock()
	t, ok := m.tables[id]
	if ok {
		delete(m.tables, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrTableNotFound
	}

	t.Close()
	log.Printf("[TABLE] Closed table %s: %s", id, reason)

	m.dispatch(Event{
		Type:    EventTableClosed,
		TableID: id,
		Message: reason,
		At:      time.Now(),
	})
	return nil
}

// List returns every open table, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	infos := make([]Info, 0, len(m.tables))
	for _, t := range m.tables {
		infos = append(infos, t.Info())
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// CloseIdle closes tables with no input for longer than maxIdle and returns their ids.
func (m *Manager) CloseIdle(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	var idle []string
	m.mu.RLock()
	for id, t := range m.tables {
		if t.LastActivity().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	closed := idle[:0]
	for _, id := range idle {
		if err := m.Close(id, "Table closed after inactivity"); err == nil {
			closed = append(closed, id)
		}
	}
	return closed
}

// Shutdown closes every table.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	tables := m.tables
	m.tables = make(map[string]*Table)
	m.mu.Unlock()

	for _, t := range tables {
		t.Close()
	}
	log.Printf("[TABLE] Shut down %d tables", len(tables))
}

func (m *Manager) onSnapshot(t *Table, snap game.Snapshot) {
	if m.listener != nil {
		m.listener.TableSnapshot(t.ID, snap)
	}

	// Only resting frames are mirrored; a rolling table changes every tick.
	if m.events != nil && !snap.BallsMoving && !snap.Aiming {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := m.events.SaveSnapshot(ctx, id, snap); err != nil {
				log.Printf("[REDIS] Failed to mirror snapshot for table %s: %v", id, err)
			}
		}(t.ID)
	}
}

func (m *Manager) onRackOver(t *Table, result game.RackResult) {
	winner := result.Players[result.Winner].Name
	log.Printf("[TABLE] Rack over on table %s: %s (winner=%s shots=%d)", t.ID, result.Outcome, winner, result.Shots)

	if m.store != nil {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.store.RecordRack(ctx, id, result); err != nil {
				log.Printf("[DB] Failed to record rack for table %s: %v", id, err)
			}
		}(t.ID)
	}

	m.dispatch(Event{
		Type:    EventRackOver,
		TableID: t.ID,
		Message: t.Snapshot().StatusMessage,
		Result:  &result,
		At:      time.Now(),
	})
}

func (m *Manager) onEvent(t *Table, ev Event) {
	m.dispatch(ev)
}

// dispatch publishes through the event sink, falling back to the local
// listener when there is no sink or publishing fails.
func (m *Manager) dispatch(ev Event) {
	if m.events == nil {
		if m.listener != nil {
			m.listener.TableEvent(ev)
		}
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.events.PublishEvent(ctx, ev); err != nil {
			log.Printf("[REDIS] Failed to publish %s for table %s: %v", ev.Type, ev.TableID, err)
			if m.listener != nil {
				m.listener.TableEvent(ev)
			}
		}
	}()
}

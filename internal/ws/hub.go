package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/table"
)

// Hub maintains the renderers connected to each table
type Hub struct {
	rooms      map[string]map[*Client]bool // tableID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.tableID]
			if !exists {
				room = make(map[*Client]bool)
				h.rooms[client.tableID] = room
			}
			room[client] = true
			size := len(room)
			if client.greeting != nil {
				client.send <- client.greeting
			}
			h.mu.Unlock()

			log.Printf("[WS] Seat %d connected to table %s (room_size=%d)", client.seat, client.tableID, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.tableID]; exists && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.tableID)
				}
				close(client.send)
				log.Printf("[WS] Seat %d disconnected from table %s", client.seat, client.tableID)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToTable sends a message to every client at a table
func (h *Hub) BroadcastToTable(tableID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tableID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full; the next snapshot supersedes this one
			log.Printf("[WS] Send buffer full for seat %d at table %s, dropping message", client.seat, tableID)
		}
	}
}

// RoomSize returns the number of clients at a table
func (h *Hub) RoomSize(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}

// CloseRoom disconnects every client at a table
func (h *Hub) CloseRoom(tableID string) {
	h.mu.Lock()
	room := h.rooms[tableID]
	delete(h.rooms, tableID)
	for client := range room {
		close(client.send)
	}
	h.mu.Unlock()

	if len(room) > 0 {
		log.Printf("[WS] Closed room for table %s (%d clients)", tableID, len(room))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
		delete(h.rooms, id)
	}
}

// TableSnapshot implements table.Listener
func (h *Hub) TableSnapshot(tableID string, snap game.Snapshot) {
	h.BroadcastToTable(tableID, outbound(MsgSnapshot, snap))
}

// TableEvent implements table.Listener
func (h *Hub) TableEvent(ev table.Event) {
	switch ev.Type {
	case table.EventRackOver:
		h.BroadcastToTable(ev.TableID, outbound(MsgRackOver, ev))
	case table.EventTableClosed:
		h.BroadcastToTable(ev.TableID, outbound(MsgTableEvent, ev))
		h.CloseRoom(ev.TableID)
	default:
		h.BroadcastToTable(ev.TableID, outbound(MsgTableEvent, ev))
	}
}

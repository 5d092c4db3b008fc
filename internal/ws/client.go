package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/table"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client is one renderer connected to a table through a seat
type Client struct {
	hub      *Hub
	manager  *table.Manager
	conn     *websocket.Conn
	tableID  string
	seat     int
	send     chan []byte
	greeting []byte
}

// ServeTable upgrades the request and attaches the connection to a table.
// The caller has already authorised the seat.
func ServeTable(hub *Hub, m *table.Manager, w http.ResponseWriter, r *http.Request, tableID string, seat int) error {
	t, err := m.Get(tableID)
	if err != nil {
		return err
	}

	greeting, err := json.Marshal(outbound(MsgSnapshot, t.Snapshot()))
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return nil
	}

	client := &Client{
		hub:      hub,
		manager:  m,
		conn:     conn,
		tableID:  tableID,
		seat:     seat,
		send:     make(chan []byte, 256),
		greeting: greeting,
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump reads client messages and turns them into table inputs
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for seat %d at table %s: %v", c.seat, c.tableID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes one client message
func (c *Client) handleMessage(msg WSMessage) {
	if msg.Type == MsgGetState {
		t, err := c.manager.Get(c.tableID)
		if err != nil {
			c.sendError("Table not found")
			return
		}
		c.sendJSON(outbound(MsgSnapshot, t.Snapshot()))
		return
	}

	in, ok, err := toInput(msg)
	if !ok {
		c.sendError("Unknown message type")
		return
	}
	if err != nil {
		c.sendError("Invalid pointer data")
		return
	}

	if err := c.manager.Submit(c.tableID, c.seat, in); err != nil {
		switch {
		case errors.Is(err, table.ErrNotYourTurn):
			c.sendError("Not your turn")
		case errors.Is(err, table.ErrTableNotFound), errors.Is(err, table.ErrTableClosed):
			c.sendError("Table is closed")
		default:
			c.sendError(err.Error())
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for seat %d at table %s: %v", c.seat, c.tableID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendJSON queues a message for this client only. It is a no-op once the
// client has left its room, since the send channel is closed then.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if !c.hub.rooms[c.tableID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full for seat %d at table %s", c.seat, c.tableID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    MsgError,
		"message": message,
	})
}

package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/billiards/internal/table"
	"github.com/redis/go-redis/v9"
)

// StartTableEventSubscriber subscribes to the table_events channel and fans
// incoming events out to the rooms on this hub
func StartTableEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; table event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, table.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", table.EventsChannel)

		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", table.EventsChannel)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handleTableEvent(hub, []byte(msg.Payload))
			}
		}
	}()
}

func handleTableEvent(hub *Hub, payload []byte) {
	var ev table.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] Invalid event payload: %v", err)
		return
	}
	if ev.TableID == "" {
		log.Printf("[WS] Event %s without table id dropped", ev.Type)
		return
	}

	if hub.RoomSize(ev.TableID) == 0 {
		// Another instance hosts this table, or nobody is watching.
		return
	}

	log.Printf("[WS] Event received: type=%s table=%s", ev.Type, ev.TableID)
	hub.TableEvent(ev)
}

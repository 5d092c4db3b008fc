package table

import (
	"context"
	"log"
	"time"

	"github.com/playmatatu/billiards/internal/config"
)

// StartIdleWorker closes tables that have seen no input for the configured
// idle timeout. The timeout is read on every poll; while it is zero or less
// the sweep is skipped, so an override to 0 pauses idle closing.
func StartIdleWorker(ctx context.Context, m *Manager, cfg *config.Config) {
	if m == nil || cfg == nil {
		log.Println("[IDLE] Manager or config missing; idle worker not started")
		return
	}

	poll := time.Duration(cfg.IdleWorkerPollSeconds) * time.Second
	if poll <= 0 {
		poll = 30 * time.Second
	}

	if maxIdle := cfg.IdleTimeout(); maxIdle > 0 {
		log.Printf("[IDLE] Idle worker started (poll every %v, idle after %v)", poll, maxIdle)
	} else {
		log.Printf("[IDLE] Idle worker started paused (poll every %v, TABLE_IDLE_MINUTES is 0)", poll)
	}

	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				if closed := sweepIdle(m, cfg); len(closed) > 0 {
					log.Printf("[IDLE] Closed %d idle tables: %v", len(closed), closed)
				}
			}
		}
	}()
}

// sweepIdle runs one idle pass and returns the closed table ids.
func sweepIdle(m *Manager, cfg *config.Config) []string {
	maxIdle := cfg.IdleTimeout()
	if maxIdle <= 0 {
		return nil
	}
	return m.CloseIdle(maxIdle)
}

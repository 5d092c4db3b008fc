package table

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/playmatatu/billiards/internal/game"
)

// maxQueuedInputs bounds the per-table input queue between two ticks.
const maxQueuedInputs = 256

// Hooks are called from the table's run loop after a tick.
type Hooks struct {
	OnSnapshot func(t *Table, snap game.Snapshot)
	OnRackOver func(t *Table, result game.RackResult)
	OnEvent    func(t *Table, ev Event)
}

// Info is the listing view of a table.
type Info struct {
	ID           string         `json:"id"`
	HotSeat      bool           `json:"hot_seat"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
	State        game.State     `json:"state"`
	Players      [2]game.Player `json:"players"`
	Shots        int            `json:"shots"`
}

// Table runs one game on its own goroutine. Inputs are queued by Submit and
// applied only at tick boundaries; the game itself is touched by the run loop alone.
type Table struct {
	ID        string
	HotSeat   bool
	CreatedAt time.Time

	game  *game.Game
	clock game.FixedStep
	hooks Hooks

	mu           sync.Mutex
	queue        []game.Input
	snapshot     game.Snapshot
	lastActivity time.Time
	closed       bool
	cancel       context.CancelFunc

	done chan struct{}
}

// New racks a table. A hot-seat table lets either seat shoot on any turn.
func New(id, player1, player2 string, hotSeat bool, hooks Hooks) *Table {
	g := game.NewGame(player1, player2)
	now := time.Now()
	return &Table{
		ID:           id,
		HotSeat:      hotSeat,
		CreatedAt:    now,
		game:         g,
		hooks:        hooks,
		snapshot:     g.Snapshot(),
		lastActivity: now,
		done:         make(chan struct{}),
	}
}

// Submit queues an input from a seat for the next tick.
func (t *Table) Submit(seat int, in game.Input) error {
	if !in.Valid() {
		return ErrInvalidInput
	}
	if seat != 0 && seat != 1 {
		return ErrInvalidSeat
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}
	if !t.HotSeat && in.Kind != game.InputReset && seat != t.snapshot.CurrentPlayer {
		return ErrNotYourTurn
	}
	if len(t.queue) >= maxQueuedInputs {
		return ErrQueueFull
	}

	t.queue = append(t.queue, in)
	t.lastActivity = time.Now()
	return nil
}

// Snapshot returns the state published by the most recent tick.
func (t *Table) Snapshot() game.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

func (t *Table) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

func (t *Table) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Table) Info() Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Info{
		ID:           t.ID,
		HotSeat:      t.HotSeat,
		CreatedAt:    t.CreatedAt,
		LastActivity: t.lastActivity,
		State:        t.snapshot.State,
		Players:      t.snapshot.Players,
		Shots:        t.snapshot.Shots,
	}
}

// Start launches the run loop. It stops when parent is cancelled or Close is called.
func (t *Table) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(ctx)
}

// Close stops the run loop and rejects further input. It waits for the loop
// to exit, so it must not be called from a hook.
func (t *Table) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-t.done
	}
}

func (t *Table) run(ctx context.Context) {
	defer close(t.done)
	defer t.recoverPanic()

	ticker := time.NewTicker(game.StepDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.advance(now.Sub(last))
			last = now
		}
	}
}

// recoverPanic closes a table whose loop crashed and reports the crash.
// Other tables keep running.
func (t *Table) recoverPanic() {
	r := recover()
	if r == nil {
		return
	}

	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	log.Printf("[TABLE] Run loop for table %s crashed: %v", t.ID, r)
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("table_id", t.ID)
	})
	hub.Recover(fmt.Errorf("table %s: %v", t.ID, r))
	hub.Flush(5 * time.Second)
}

// advance runs as many fixed steps as the elapsed wall time allows.
func (t *Table) advance(elapsed time.Duration) int {
	steps := t.clock.Advance(elapsed)
	for i := 0; i < steps; i++ {
		t.tick()
	}
	return steps
}

// tick drains the queue into one game step and notifies the hooks.
func (t *Table) tick() {
	t.mu.Lock()
	inputs := t.queue
	t.queue = nil
	t.mu.Unlock()

	report := t.game.Step(inputs...)
	snap := t.game.Snapshot()

	t.mu.Lock()
	t.snapshot = snap
	t.mu.Unlock()

	changed := len(inputs) > 0 || report.Shot || report.Settled || report.RackOver ||
		snap.BallsMoving || snap.PullDistance > 0
	if changed && t.hooks.OnSnapshot != nil {
		t.hooks.OnSnapshot(t, snap)
	}

	if report.Pockets.Scratch && !report.RackOver && t.hooks.OnEvent != nil {
		t.hooks.OnEvent(t, Event{
			Type:    EventScratch,
			TableID: t.ID,
			Message: snap.StatusMessage,
			At:      time.Now(),
		})
	}

	if report.RackOver && t.hooks.OnRackOver != nil {
		if res := t.game.Result(); res != nil {
			t.hooks.OnRackOver(t, *res)
		}
	}
}

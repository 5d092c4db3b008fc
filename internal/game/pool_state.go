package game

import "fmt"

// BallGroup represents a player's assigned ball group.
type BallGroup string

const (
	GroupUnassigned BallGroup = "UNASSIGNED" // open table
	GroupSolids     BallGroup = "SOLIDS"
	GroupStripes    BallGroup = "STRIPES"
)

// Opposite returns the complementary group. The open table has no complement.
func (g BallGroup) Opposite() BallGroup {
	switch g {
	case GroupSolids:
		return GroupStripes
	case GroupStripes:
		return GroupSolids
	}
	return GroupUnassigned
}

// State is the table's rule state.
type State string

const (
	StateStart   State = "START" // break pending; accepts shots like Playing
	StatePlaying State = "PLAYING"
	StateScratch State = "SCRATCH" // cue ball must be placed before play resumes
	StateWon     State = "WON"
	StateLost    State = "LOST"
)

// Terminal reports whether only a reset can leave this state.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// Player is one of the two seats at the table.
type Player struct {
	Name           string    `json:"name"`
	Group          BallGroup `json:"group"`
	BallsRemaining int       `json:"balls_remaining"`
}

// GroupCleared reports whether the player owns a group and has pocketed all of it.
func (p *Player) GroupCleared() bool {
	return p.Group != GroupUnassigned && p.BallsRemaining == 0
}

// AimState exists only while a drag gesture is active.
type AimState struct {
	DragStart Vec2 `json:"drag_start"`
	Pointer   Vec2 `json:"pointer"`
}

// RecoilState drives the cosmetic stick pull-back after a shot. It has no effect on physics.
type RecoilState struct {
	Timer float64 `json:"timer"`
}

func (r RecoilState) Active() bool {
	return r.Timer > 0
}

// RackResult summarises a finished rack.
type RackResult struct {
	Outcome State     `json:"outcome"`
	Shooter int       `json:"shooter"`
	Winner  int       `json:"winner"`
	Loser   int       `json:"loser"`
	Shots   int       `json:"shots"`
	Ticks   uint64    `json:"ticks"`
	Players [2]Player `json:"players"`
}

// StepReport describes what happened during one Step.
type StepReport struct {
	Pockets    PocketReport     `json:"pockets"`
	Collisions []CollisionEvent `json:"collisions,omitempty"`
	Shot       bool             `json:"shot"`
	Settled    bool             `json:"settled"`
	RackOver   bool             `json:"rack_over"`
	Reset      bool             `json:"reset"`
}

// Game is the complete state of one table. It is not safe for concurrent use:
// exactly one owner calls Step, and inputs reach it only through Step.
type Game struct {
	Balls         [NumBalls]Ball `json:"balls"`
	Players       [2]Player      `json:"players"`
	CurrentPlayer int            `json:"current_player"`
	State         State          `json:"state"`
	CueRespawn    Vec2           `json:"cue_respawn"`
	Power         float64        `json:"power"`
	PullDistance  float64        `json:"pull_distance"`
	StatusMessage string         `json:"status_message"`
	Shots         int            `json:"shots"`
	Ticks         uint64         `json:"ticks"`

	names       [2]string
	aim         *AimState
	recoil      RecoilState
	ballsMoving bool
	result      *RackResult
}

// NewGame racks a new game. Empty names fall back to "Player 1" and "Player 2".
func NewGame(player1, player2 string) *Game {
	if player1 == "" {
		player1 = "Player 1"
	}
	if player2 == "" {
		player2 = "Player 2"
	}
	g := &Game{names: [2]string{player1, player2}}
	g.Reset()
	return g
}

// Reset reinitialises the whole table to the start of a rack.
func (g *Game) Reset() {
	for i := range g.Players {
		g.Players[i] = Player{
			Name:           g.names[i],
			Group:          GroupUnassigned,
			BallsRemaining: GroupSize,
		}
	}

	g.Balls = Standard8BallRack()
	g.CueRespawn = g.Balls[0].Position
	g.CurrentPlayer = 0
	g.State = StateStart
	g.Power = 0
	g.PullDistance = 0
	g.Shots = 0
	g.Ticks = 0
	g.StatusMessage = "Break shot: click on cue, drag back, release to shoot"

	g.aim = nil
	g.recoil = RecoilState{}
	g.ballsMoving = false
	g.result = nil
}

// Step runs one atomic tick: queued inputs, recoil decay, then (while the
// balls are live) integration, collisions, pockets and turn settlement.
func (g *Game) Step(inputs ...Input) StepReport {
	var report StepReport

	// One shot per step: pointer input after a release waits for the table to settle.
	for _, in := range inputs {
		if report.Shot && in.Kind != InputReset {
			continue
		}

		shotsBefore := g.Shots
		changed := g.HandleInput(in)
		if in.Kind == InputReset {
			if changed {
				report.Reset = true
				report.Shot = false
			}
			continue
		}
		if g.Shots > shotsBefore {
			report.Shot = true
		}
	}

	g.updateRecoil()
	g.Ticks++

	if g.State != StatePlaying && g.State != StateScratch {
		return report
	}

	Integrate(&g.Balls)
	report.Collisions = ResolveCollisions(&g.Balls)
	report.Pockets = g.CheckPockets()
	report.RackOver = report.Pockets.EightBall

	moving := AreBallsMoving(&g.Balls)
	if !g.ballsMoving && moving {
		g.ballsMoving = true
	}
	if g.ballsMoving && !moving {
		g.ballsMoving = false
		report.Settled = true

		if g.State == StatePlaying {
			g.checkWinCondition()
			if !g.State.Terminal() {
				g.nextTurn()
			}
		}
	}

	return report
}

// updateRecoil decays the cosmetic stick pull by one fixed step.
func (g *Game) updateRecoil() {
	if !g.recoil.Active() {
		return
	}

	g.recoil.Timer -= StepSeconds
	if g.recoil.Timer <= 0 {
		g.recoil.Timer = 0
		g.PullDistance = 0
		return
	}

	g.PullDistance *= RecoilDecay
	g.Power = g.PullDistance / MaxPowerPixels
	if g.Power < 0 {
		g.Power = 0
	}
}

// checkWinCondition only narrates; the rack ends when the 8-ball drops.
func (g *Game) checkWinCondition() {
	if g.Players[g.CurrentPlayer].GroupCleared() {
		g.StatusMessage = "Shoot the 8-ball!"
	}
}

func (g *Game) nextTurn() {
	g.CurrentPlayer = 1 - g.CurrentPlayer
	g.StatusMessage = fmt.Sprintf("%s's turn", g.Players[g.CurrentPlayer].Name)
}

// applyScratch hands the table to the opponent with the cue ball in hand.
func (g *Game) applyScratch() {
	g.State = StateScratch
	g.StatusMessage = "Scratch! Place cue ball"
	g.CurrentPlayer = 1 - g.CurrentPlayer
}

// finishRack moves to a terminal state and freezes the rack summary.
func (g *Game) finishRack(outcome State) {
	shooter := g.CurrentPlayer
	g.State = outcome

	winner, loser := shooter, 1-shooter
	if outcome == StateLost {
		winner, loser = loser, winner
		g.StatusMessage = fmt.Sprintf("%s sank the 8-ball early. %s wins!", g.Players[shooter].Name, g.Players[winner].Name)
	} else {
		g.StatusMessage = fmt.Sprintf("%s sank the 8-ball and wins!", g.Players[shooter].Name)
	}

	g.result = &RackResult{
		Outcome: outcome,
		Shooter: shooter,
		Winner:  winner,
		Loser:   loser,
		Shots:   g.Shots,
		Ticks:   g.Ticks,
		Players: g.Players,
	}
}

// Result returns the summary of the finished rack, or nil while it is still in play.
func (g *Game) Result() *RackResult {
	if g.result == nil {
		return nil
	}
	r := *g.result
	return &r
}

// TypesAssigned reports whether solids and stripes have been handed out this rack.
func (g *Game) TypesAssigned() bool {
	return g.Players[0].Group != GroupUnassigned
}

// BreakPending reports whether the break shot has not been played yet.
func (g *Game) BreakPending() bool {
	return g.State == StateStart
}

// BallsMoving reports the edge-detected motion flag.
func (g *Game) BallsMoving() bool {
	return g.ballsMoving
}

// Aiming reports whether a drag gesture is in progress.
func (g *Game) Aiming() bool {
	return g.aim != nil
}

// CueBallAnchor is where the cue ball logically sits: its resting position, or
// the respawn anchor while it is in a pocket.
func (g *Game) CueBallAnchor() Vec2 {
	if g.Balls[0].Pocketed {
		return g.CueRespawn
	}
	return g.Balls[0].Position
}

// playerIndexForGroup returns the seat that owns group, or -1.
func (g *Game) playerIndexForGroup(group BallGroup) int {
	if group == GroupUnassigned {
		return -1
	}
	for i := range g.Players {
		if g.Players[i].Group == group {
			return i
		}
	}
	return -1
}

// assignGroups gives the shooter the group of the first pocketed object ball
// and the opponent the other one. It happens once per rack.
func (g *Game) assignGroups(shooter int, group BallGroup) {
	if g.TypesAssigned() || group == GroupUnassigned {
		return
	}
	g.Players[shooter].Group = group
	g.Players[1-shooter].Group = group.Opposite()
}

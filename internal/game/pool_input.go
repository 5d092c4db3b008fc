package game

import "fmt"

// InputKind is the kind of pointer or command event fed into the table.
type InputKind string

const (
	InputPointerDown InputKind = "pointer_down"
	InputPointerHeld InputKind = "pointer_held"
	InputPointerUp   InputKind = "pointer_up"
	InputReset       InputKind = "reset"
)

// Input is one event in table space. Position is ignored for InputReset.
type Input struct {
	Kind     InputKind `json:"kind"`
	Position Vec2      `json:"position"`
}

// Valid reports whether the kind is one the table understands.
func (in Input) Valid() bool {
	switch in.Kind {
	case InputPointerDown, InputPointerHeld, InputPointerUp, InputReset:
		return true
	}
	return false
}

// HandleInput applies a single input event and reports whether it changed
// anything. Rejected gestures are not errors: at most they update the status message.
func (g *Game) HandleInput(in Input) bool {
	if in.Kind == InputReset {
		g.Reset()
		return true
	}

	if g.State.Terminal() {
		return false
	}

	if g.State == StateScratch {
		if in.Kind == InputPointerDown {
			return g.placeCueBall(in.Position)
		}
		return false
	}

	if g.ballsMoving || AreBallsMoving(&g.Balls) {
		return false
	}

	cuePos := g.CueBallAnchor()

	switch in.Kind {
	case InputPointerDown:
		started := false
		if Distance(in.Position, cuePos) <= AimGrabRadius {
			g.aim = &AimState{DragStart: in.Position, Pointer: in.Position}
			g.PullDistance = 0
			g.Power = 0
			started = true
		}
		// The press is also the first held sample.
		g.updateAim(in.Position, cuePos)
		return started

	case InputPointerHeld:
		return g.updateAim(in.Position, cuePos)

	case InputPointerUp:
		return g.releaseShot(in.Position, cuePos)
	}

	return false
}

// updateAim tracks the pointer while dragging and derives pull and power from it.
func (g *Game) updateAim(pointer, cuePos Vec2) bool {
	if g.aim == nil {
		return false
	}

	d := Distance(pointer, cuePos)
	if d > MaxPowerPixels {
		d = MaxPowerPixels
	}
	g.aim.Pointer = pointer
	g.PullDistance = d
	g.Power = d / MaxPowerPixels
	return true
}

// releaseShot turns the finished drag into a cue ball velocity. The ball is
// sent from its anchor toward the release point; the last held pull sets speed.
func (g *Game) releaseShot(pointer, cuePos Vec2) bool {
	if g.aim == nil {
		return false
	}
	g.aim = nil

	dir := pointer.Minus(cuePos)
	length := dir.Magnitude()
	if length < DragEpsilon {
		g.PullDistance = 0
		g.Power = 0
		return false
	}
	dir = dir.Times(1 / length)

	shotSpeed := (g.PullDistance / MaxPowerPixels) * MaxShotSpeed
	if shotSpeed > MaxShotSpeed {
		shotSpeed = MaxShotSpeed
	}

	g.Balls[0].Velocity = dir.Times(shotSpeed)
	g.State = StatePlaying
	g.Shots++

	g.recoil = RecoilState{Timer: RecoilSeconds}
	g.Power = 0
	return true
}

// placeCueBall handles ball-in-hand after a scratch.
func (g *Game) placeCueBall(p Vec2) bool {
	if !PlayableArea(p) {
		g.StatusMessage = "Invalid position! Place inside rails"
		return false
	}

	g.CueRespawn = p
	cue := &g.Balls[0]
	cue.Position = p
	cue.Pocketed = false
	cue.Velocity = Vec2{}
	g.State = StatePlaying
	g.StatusMessage = fmt.Sprintf("Cue placed. %s's turn", g.Players[g.CurrentPlayer].Name)
	return true
}

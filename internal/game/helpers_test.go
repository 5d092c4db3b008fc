package game

import (
	"math"
	"testing"
)

const eps = 1e-9

// newPlayingGame returns a fresh rack already past the break, so physics and
// pocket checks run on Step.
func newPlayingGame() *Game {
	g := NewGame("", "")
	g.State = StatePlaying
	return g
}

// clearTable pockets every object ball so tests can place only the balls they need.
func clearTable(g *Game) {
	for i := 1; i < NumBalls; i++ {
		g.Balls[i].Pocketed = true
	}
}

// place puts a ball back on the table at p with velocity v.
func place(g *Game, n int, p, v Vec2) {
	g.Balls[n].Pocketed = false
	g.Balls[n].Position = p
	g.Balls[n].Velocity = v
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func assertSpeedLimit(t *testing.T, g *Game, tick int) {
	t.Helper()
	for i := range g.Balls {
		if s := g.Balls[i].Velocity.Magnitude(); s > MaxBallSpeed+eps {
			t.Fatalf("tick %d: ball %d speed %.6f exceeds %.1f", tick, i, s, MaxBallSpeed)
		}
	}
}

// shoot drives a full drag gesture from the cue ball toward target.
func shoot(g *Game, target Vec2) StepReport {
	cue := g.CueBallAnchor()
	g.Step(Input{Kind: InputPointerDown, Position: cue})
	g.Step(Input{Kind: InputPointerHeld, Position: target})
	return g.Step(Input{Kind: InputPointerUp, Position: target})
}

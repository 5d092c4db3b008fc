package game

import (
	"testing"
)

func TestIntegrateMovesAndAppliesFriction(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Number: 0, Kind: KindCue, Position: NewVec2(300, 200), Velocity: NewVec2(10, 0)}

	Integrate(&balls)

	if !approx(balls[0].Position.X, 310) || !approx(balls[0].Position.Y, 200) {
		t.Errorf("position = (%.4f, %.4f), want (310, 200)", balls[0].Position.X, balls[0].Position.Y)
	}
	if !approx(balls[0].Velocity.X, 10*Friction) {
		t.Errorf("velocity x = %.6f, want %.6f", balls[0].Velocity.X, 10*Friction)
	}
}

func TestIntegrateSnapsCreepingComponents(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(300, 200), Velocity: NewVec2(0.05, 5)}

	Integrate(&balls)

	if balls[0].Velocity.X != 0 {
		t.Errorf("x component should snap to zero, got %.6f", balls[0].Velocity.X)
	}
	if !approx(balls[0].Velocity.Y, 5*Friction) {
		t.Errorf("y component = %.6f, want %.6f", balls[0].Velocity.Y, 5*Friction)
	}
}

func TestRailBounceClampsAndReflects(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(740, 200), Velocity: NewVec2(10, 0)}
	balls[1] = Ball{Number: 1, Position: NewVec2(300, 58), Velocity: NewVec2(0, -6)}

	Integrate(&balls)

	maxX := TableWidth - RailWidth - BallRadius
	if balls[0].Position.X != maxX {
		t.Errorf("ball 0 x = %.4f, want clamped to %.1f", balls[0].Position.X, maxX)
	}
	if want := -10 * Friction * RailRestitution; !approx(balls[0].Velocity.X, want) {
		t.Errorf("ball 0 vx = %.6f, want %.6f", balls[0].Velocity.X, want)
	}

	minY := RailWidth + BallRadius
	if balls[1].Position.Y != minY {
		t.Errorf("ball 1 y = %.4f, want clamped to %.1f", balls[1].Position.Y, minY)
	}
	if balls[1].Velocity.Y <= 0 {
		t.Errorf("ball 1 should bounce back down, vy = %.4f", balls[1].Velocity.Y)
	}
}

func TestIntegrateClampsSpeed(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(150, 150), Velocity: NewVec2(30, 30)}

	Integrate(&balls)

	if s := balls[0].Velocity.Magnitude(); !approx(s, MaxBallSpeed) {
		t.Errorf("speed = %.6f, want clamped to %.1f", s, MaxBallSpeed)
	}
}

func TestPocketedBallsNeverMove(t *testing.T) {
	g := newPlayingGame()
	g.Balls[5].Pocketed = true
	g.Balls[5].Velocity = NewVec2(12, -3)
	start := g.Balls[5].Position

	g.Balls[0].Velocity = NewVec2(MaxShotSpeed, 0)
	for i := 0; i < 300; i++ {
		g.Step()
		if g.Balls[5].Position != start {
			t.Fatalf("tick %d: pocketed ball moved from %v to %v", i, start, g.Balls[5].Position)
		}
		if g.State.Terminal() {
			break
		}
	}
}

func TestRailContainmentAfterIntegration(t *testing.T) {
	g := newPlayingGame()
	g.Balls[0].Velocity = NewVec2(MaxShotSpeed, 1.5)

	minX, maxX := RailWidth+BallRadius, TableWidth-RailWidth-BallRadius
	minY, maxY := RailWidth+BallRadius, TableHeight-RailWidth-BallRadius

	for tick := 0; tick < 1500; tick++ {
		Integrate(&g.Balls)
		for i := range g.Balls {
			b := &g.Balls[i]
			if b.Pocketed {
				continue
			}
			if b.Position.X < minX-eps || b.Position.X > maxX+eps || b.Position.Y < minY-eps || b.Position.Y > maxY+eps {
				t.Fatalf("tick %d: ball %d escaped the rails at (%.3f, %.3f)", tick, i, b.Position.X, b.Position.Y)
			}
		}
		assertSpeedLimit(t, g, tick)

		ResolveCollisions(&g.Balls)
		assertSpeedLimit(t, g, tick)

		g.CheckPockets()
		if g.State.Terminal() || !AreBallsMoving(&g.Balls) {
			break
		}
	}
}

func TestHeadOnCollisionSwapsVelocities(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Number: 0, Position: NewVec2(300, 200), Velocity: NewVec2(2, 0)}
	balls[1] = Ball{Number: 1, Position: NewVec2(300+2*BallRadius, 200), Velocity: NewVec2(-2, 0)}

	// Exactly touching is not an overlap yet.
	if events := ResolveCollisions(&balls); len(events) != 0 {
		t.Fatalf("touching balls should not collide, got %d events", len(events))
	}

	Integrate(&balls)
	vA, vB := balls[0].Velocity, balls[1].Velocity

	events := ResolveCollisions(&balls)
	if len(events) != 1 {
		t.Fatalf("expected one collision, got %d", len(events))
	}
	if events[0].Impact <= 0 {
		t.Errorf("impact should be positive for approaching balls, got %.4f", events[0].Impact)
	}

	if !approx(balls[0].Velocity.X, vB.X) || !approx(balls[1].Velocity.X, vA.X) {
		t.Errorf("velocities not swapped: a=%.4f b=%.4f, want a=%.4f b=%.4f",
			balls[0].Velocity.X, balls[1].Velocity.X, vB.X, vA.X)
	}
	if d := Distance(balls[0].Position, balls[1].Position); d < 2*BallRadius {
		t.Errorf("balls still overlap after resolution: distance %.6f", d)
	}
}

func TestGlancingCollisionConservesNormalAndTangent(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Number: 0, Position: NewVec2(300, 200), Velocity: NewVec2(3, 1)}
	balls[1] = Ball{Number: 1, Position: NewVec2(325, 210), Velocity: NewVec2(-1, 0.5)}

	n := balls[1].Position.Minus(balls[0].Position).Normalize()
	tan := n.LeftNormal()
	aN, aT := balls[0].Velocity.Dot(n), balls[0].Velocity.Dot(tan)
	bN, bT := balls[1].Velocity.Dot(n), balls[1].Velocity.Dot(tan)

	if events := ResolveCollisions(&balls); len(events) != 1 {
		t.Fatalf("expected one collision, got %d", len(events))
	}

	aN2, aT2 := balls[0].Velocity.Dot(n), balls[0].Velocity.Dot(tan)
	bN2, bT2 := balls[1].Velocity.Dot(n), balls[1].Velocity.Dot(tan)

	if !approx(aN+bN, aN2+bN2) {
		t.Errorf("normal momentum changed: before %.6f after %.6f", aN+bN, aN2+bN2)
	}
	if !approx(aN2, bN) || !approx(bN2, aN) {
		t.Errorf("normal components not swapped: a %.4f->%.4f b %.4f->%.4f", aN, aN2, bN, bN2)
	}
	if !approx(aT, aT2) || !approx(bT, bT2) {
		t.Errorf("tangential components changed: a %.4f->%.4f b %.4f->%.4f", aT, aT2, bT, bT2)
	}
}

func TestCoincidentBallsAreSkipped(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(300, 200), Velocity: NewVec2(1, 0)}
	balls[1] = Ball{Number: 1, Position: NewVec2(300, 200), Velocity: NewVec2(0, 1)}

	if events := ResolveCollisions(&balls); len(events) != 0 {
		t.Fatalf("coincident balls should be skipped, got %d events", len(events))
	}
	if balls[0].Velocity != NewVec2(1, 0) || balls[1].Velocity != NewVec2(0, 1) {
		t.Errorf("velocities changed on skipped pair: %v %v", balls[0].Velocity, balls[1].Velocity)
	}
}

func TestCollisionClampsResultingSpeed(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(300, 200), Velocity: NewVec2(0, 20)}
	balls[1] = Ball{Number: 1, Position: NewVec2(328, 200), Velocity: NewVec2(-20, 0)}

	ResolveCollisions(&balls)

	for i := 0; i < 2; i++ {
		if s := balls[i].Velocity.Magnitude(); s > MaxBallSpeed+eps {
			t.Errorf("ball %d speed %.4f exceeds max after collision", i, s)
		}
	}
}

func TestPocketedBallsExcludedFromCollisions(t *testing.T) {
	var balls [NumBalls]Ball
	for i := range balls {
		balls[i].Pocketed = true
	}
	balls[0] = Ball{Position: NewVec2(300, 200), Velocity: NewVec2(3, 0)}
	balls[1] = Ball{Number: 1, Position: NewVec2(310, 200), Pocketed: true}

	if events := ResolveCollisions(&balls); len(events) != 0 {
		t.Errorf("pocketed ball took part in a collision")
	}
}

func TestAreBallsMoving(t *testing.T) {
	g := NewGame("", "")
	if AreBallsMoving(&g.Balls) {
		t.Error("fresh rack should be at rest")
	}
	g.Balls[3].Velocity = NewVec2(0, 0.5)
	if !AreBallsMoving(&g.Balls) {
		t.Error("expected motion with a rolling ball")
	}
	g.Balls[3].Pocketed = true
	if AreBallsMoving(&g.Balls) {
		t.Error("pocketed balls should not count as moving")
	}
}

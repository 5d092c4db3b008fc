package game

// CollisionEvent records one ball-ball contact resolved during a step.
type CollisionEvent struct {
	BallA  int     `json:"ball_a"`
	BallB  int     `json:"ball_b"`
	Impact float64 `json:"impact"` // closing speed along the normal before the exchange
}

// Integrate advances every ball on the table by one fixed step: move, apply
// friction, snap creeping components to zero, bounce off the rails and cap speed.
func Integrate(balls *[NumBalls]Ball) {
	for i := range balls {
		b := &balls[i]
		if b.Pocketed {
			continue
		}

		b.Position = b.Position.Plus(b.Velocity)
		b.Velocity = b.Velocity.Times(Friction)

		if abs(b.Velocity.X) < MinVelocity {
			b.Velocity.X = 0
		}
		if abs(b.Velocity.Y) < MinVelocity {
			b.Velocity.Y = 0
		}

		bounceRails(b)
		ClampBallSpeed(b, MaxBallSpeed)
	}
}

// bounceRails clamps a ball that crossed a rail back onto the boundary and
// reflects the perpendicular velocity component with energy loss.
func bounceRails(b *Ball) {
	minX, maxX := RailWidth+BallRadius, TableWidth-RailWidth-BallRadius
	minY, maxY := RailWidth+BallRadius, TableHeight-RailWidth-BallRadius

	if b.Position.X < minX {
		b.Position.X = minX
		b.Velocity.X *= -RailRestitution
	}
	if b.Position.X > maxX {
		b.Position.X = maxX
		b.Velocity.X *= -RailRestitution
	}
	if b.Position.Y < minY {
		b.Position.Y = minY
		b.Velocity.Y *= -RailRestitution
	}
	if b.Position.Y > maxY {
		b.Position.Y = maxY
		b.Velocity.Y *= -RailRestitution
	}
}

// ClampBallSpeed rescales the ball's velocity so its magnitude is at most maxSpeed.
func ClampBallSpeed(b *Ball, maxSpeed float64) {
	b.Velocity = b.Velocity.ClampMagnitude(maxSpeed)
}

// ResolveCollisions makes one pass over all pairs of balls still on the table.
// Overlapping pairs are pushed apart along the line of centres and exchange
// their normal velocity components. Overlaps created by this pass are left for
// the next step.
func ResolveCollisions(balls *[NumBalls]Ball) []CollisionEvent {
	var events []CollisionEvent
	minDist := BallRadius * 2

	for i := 0; i < NumBalls; i++ {
		a := &balls[i]
		if a.Pocketed {
			continue
		}
		for j := i + 1; j < NumBalls; j++ {
			b := &balls[j]
			if b.Pocketed {
				continue
			}

			dist := Distance(a.Position, b.Position)
			if dist >= minDist || dist <= CollisionEpsilon {
				continue
			}

			overlap := 0.5 * (minDist - dist + OverlapBias)
			normal := b.Position.Minus(a.Position).Times(1 / dist)

			a.Position = a.Position.Minus(normal.Times(overlap))
			b.Position = b.Position.Plus(normal.Times(overlap))

			impact := a.Velocity.Minus(b.Velocity).Dot(normal)
			resolveElastic(a, b)

			ClampBallSpeed(a, MaxBallSpeed)
			ClampBallSpeed(b, MaxBallSpeed)

			events = append(events, CollisionEvent{BallA: a.Number, BallB: b.Number, Impact: impact})
		}
	}

	return events
}

// resolveElastic performs an equal-mass elastic exchange: normal components
// swap, tangential components are kept.
func resolveElastic(a, b *Ball) {
	delta := b.Position.Minus(a.Position)
	dist := delta.Magnitude()
	if dist <= CollisionEpsilon {
		return
	}

	n := delta.Times(1 / dist)
	t := n.LeftNormal()

	aNormal := a.Velocity.Dot(n)
	aTangent := a.Velocity.Dot(t)
	bNormal := b.Velocity.Dot(n)
	bTangent := b.Velocity.Dot(t)

	a.Velocity = n.Times(bNormal).Plus(t.Times(aTangent))
	b.Velocity = n.Times(aNormal).Plus(t.Times(bTangent))
}

// AreBallsMoving reports whether any ball on the table is still in motion.
func AreBallsMoving(balls *[NumBalls]Ball) bool {
	for i := range balls {
		if balls[i].IsMoving() {
			return true
		}
	}
	return false
}

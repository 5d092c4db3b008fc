package game

import "time"

// StepDuration is the wall-clock length of one simulation step.
const StepDuration = time.Second / TickRate

// MaxCatchUpSteps bounds how many steps a single Advance may request, so a
// stalled host drops time instead of spiralling.
const MaxCatchUpSteps = 5

// FixedStep converts elapsed wall time into a whole number of fixed steps.
// Friction and restitution are tuned per step, so the simulation must never
// run on variable deltas.
type FixedStep struct {
	acc time.Duration
}

// Advance adds elapsed time and returns the number of steps to run now.
func (f *FixedStep) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	f.acc += elapsed

	steps := int(f.acc / StepDuration)
	if steps > MaxCatchUpSteps {
		steps = MaxCatchUpSteps
		f.acc = 0
		return steps
	}
	f.acc -= time.Duration(steps) * StepDuration
	return steps
}

// Pending returns the carried remainder.
func (f *FixedStep) Pending() time.Duration {
	return f.acc
}
